package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/medrecord"
)

type MedicalRecordHandler struct {
	svc      medrecord.Service
	sessions auth.Service
}

func NewMedicalRecordHandler(svc medrecord.Service, sessions auth.Service) *MedicalRecordHandler {
	return &MedicalRecordHandler{svc: svc, sessions: sessions}
}

// GET /patients/:id/records
func (h *MedicalRecordHandler) History(c fiber.Ctx) error {
	return ok(c, h.svc.History(c.Context(), c.Params("id")))
}

// POST /patients/:id/records
func (h *MedicalRecordHandler) Add(c fiber.Ctx) error {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return err
	}
	m, err := h.svc.Add(c.Context(), ws, medrecord.AddRequest{PatientID: c.Params("id"), Notes: body.Notes})
	switch {
	case errors.Is(err, medrecord.ErrPatientRequired), errors.Is(err, medrecord.ErrNotesRequired):
		return badRequest(c, err.Error())
	case err != nil:
		return internalError(c)
	}
	return created(c, m)
}
