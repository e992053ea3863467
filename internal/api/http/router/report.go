package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/api/http/handler"
	"github.com/Alijeyrad/kliniksehat/pkg/authorize"
)

func (r *Router) registerReportRoutes(api fiber.Router, h *handler.ReportHandler, sessionRequired fiber.Handler, requirePerm permFunc) {
	reports := api.Group("/reports", sessionRequired, requirePerm(authorize.ResourceReport, authorize.ActionRead))
	reports.Get("/summary", h.Summary)
	reports.Get("/summary.csv", h.SummaryCSV)

	api.Get("/logs", sessionRequired, requirePerm(authorize.ResourceLog, authorize.ActionRead), h.Activity)
}

func (r *Router) registerMeRoutes(api fiber.Router, h *handler.MeHandler, sessionRequired fiber.Handler, requirePerm permFunc) {
	me := api.Group("/me", sessionRequired, requirePerm(authorize.ResourceSelfService, authorize.ActionRead))
	me.Get("/appointments", h.Appointments)
	me.Get("/history", h.History)
	me.Get("/prescriptions", h.Prescriptions)
	me.Post("/queue", requirePerm(authorize.ResourceSelfService, authorize.ActionCreate), h.Queue)
}
