package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/report"
)

type ReportHandler struct {
	svc      report.Service
	sessions auth.Service
}

func NewReportHandler(svc report.Service, sessions auth.Service) *ReportHandler {
	return &ReportHandler{svc: svc, sessions: sessions}
}

// GET /reports/summary
func (h *ReportHandler) Summary(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return err
	}
	return ok(c, h.svc.Summary(c.Context(), ws))
}

// GET /reports/summary.csv
func (h *ReportHandler) SummaryCSV(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return err
	}
	data, err := h.svc.CSV(c.Context(), ws)
	if err != nil {
		return internalError(c)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="laporan.csv"`)
	return c.Send(data)
}

// GET /logs
func (h *ReportHandler) Activity(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return err
	}
	return ok(c, h.svc.Activity(c.Context(), ws))
}
