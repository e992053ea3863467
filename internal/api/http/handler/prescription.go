package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/prescription"
)

type PrescriptionHandler struct {
	svc      prescription.Service
	sessions auth.Service
}

func NewPrescriptionHandler(svc prescription.Service, sessions auth.Service) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc, sessions: sessions}
}

func mapPrescriptionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, prescription.ErrPrescriptionNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, prescription.ErrAlreadyPickedUp):
		return conflict(c, err.Error())
	case errors.Is(err, prescription.ErrPatientRequired), errors.Is(err, prescription.ErrNoItems):
		return badRequest(c, err.Error())
	case errors.Is(err, fiber.ErrUnauthorized):
		return err
	default:
		return internalError(c)
	}
}

// GET /prescriptions
func (h *PrescriptionHandler) List(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapPrescriptionError(c, err)
	}
	list, err := h.svc.List(c.Context(), ws)
	if err != nil {
		return mapPrescriptionError(c, err)
	}
	return ok(c, list)
}

// POST /prescriptions
func (h *PrescriptionHandler) Create(c fiber.Ctx) error {
	var body struct {
		PatientID string `json:"patientId"`
		Items     string `json:"items"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapPrescriptionError(c, err)
	}
	rx, err := h.svc.Create(c.Context(), ws, prescription.CreateRequest{
		PatientID: body.PatientID,
		Items:     body.Items,
	})
	if err != nil {
		return mapPrescriptionError(c, err)
	}
	return created(c, rx)
}

// POST /prescriptions/:id/pickup
func (h *PrescriptionHandler) PickUp(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapPrescriptionError(c, err)
	}
	rx, err := h.svc.PickUp(c.Context(), ws, c.Params("id"))
	if err != nil {
		return mapPrescriptionError(c, err)
	}
	return ok(c, rx)
}

// GET /patients/:id/prescriptions
func (h *PrescriptionHandler) ForPatient(c fiber.Ctx) error {
	return ok(c, h.svc.ForPatient(c.Context(), c.Params("id")))
}
