package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/patient"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func mapPatientError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrNameRequired),
		errors.Is(err, patient.ErrInvalidPhone),
		errors.Is(err, patient.ErrInvalidDOB):
		return badRequest(c, err.Error())
	case errors.Is(err, fiber.ErrUnauthorized):
		return err
	default:
		return internalError(c)
	}
}

// GET /patients?q=
func (h *PatientHandler) List(c fiber.Ctx) error {
	return ok(c, h.svc.List(c.Context(), c.Query("q")))
}

// GET /patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	p, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// POST /patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var body struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		DOB   string `json:"dob"`
		Notes string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Create(c.Context(), patient.CreateRequest{
		Name:  body.Name,
		Phone: body.Phone,
		DOB:   body.DOB,
		Notes: body.Notes,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, p)
}

// PATCH /patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	var body struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
		DOB   *string `json:"dob"`
		Notes *string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Update(c.Context(), c.Params("id"), patient.UpdateRequest{
		Name:  body.Name,
		Phone: body.Phone,
		DOB:   body.DOB,
		Notes: body.Notes,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// DELETE /patients/:id
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapPatientError(c, err)
	}
	return noContent(c)
}
