package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/api/http/handler"
	"github.com/Alijeyrad/kliniksehat/pkg/authorize"
)

// registerClinicRoutes mounts the routes that act on the caller's own
// role partition.
func (r *Router) registerClinicRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	ph *handler.PaymentHandler,
	sh *handler.StockHandler,
	xh *handler.PrescriptionHandler,
	sessionRequired fiber.Handler,
	requirePerm permFunc,
) {
	appts := api.Group("/appointments", sessionRequired)
	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.List)
	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ah.Create)
	appts.Patch("/:id", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.UpdateStatus)
	appts.Delete("/:id", requirePerm(authorize.ResourceAppointment, authorize.ActionDelete), ah.Delete)

	payments := api.Group("/payments", sessionRequired)
	payments.Get("/", requirePerm(authorize.ResourcePayment, authorize.ActionRead), ph.List)
	payments.Post("/", requirePerm(authorize.ResourcePayment, authorize.ActionCreate), ph.Create)

	stock := api.Group("/stock", sessionRequired)
	stock.Get("/", requirePerm(authorize.ResourceStock, authorize.ActionRead), sh.List)
	stock.Get("/low", requirePerm(authorize.ResourceStock, authorize.ActionRead), sh.Low)
	stock.Post("/", requirePerm(authorize.ResourceStock, authorize.ActionCreate), sh.Create)
	stock.Put("/:id", requirePerm(authorize.ResourceStock, authorize.ActionUpdate), sh.Update)
	stock.Delete("/:id", requirePerm(authorize.ResourceStock, authorize.ActionDelete), sh.Delete)

	rx := api.Group("/prescriptions", sessionRequired)
	rx.Get("/", requirePerm(authorize.ResourcePrescription, authorize.ActionRead), xh.List)
	rx.Post("/", requirePerm(authorize.ResourcePrescription, authorize.ActionCreate), xh.Create)
	rx.Post("/:id/pickup", requirePerm(authorize.ResourcePrescription, authorize.ActionExecute), xh.PickUp)
}
