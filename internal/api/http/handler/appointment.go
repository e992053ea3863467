package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/appointment"
	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
)

type AppointmentHandler struct {
	svc      appointment.Service
	sessions auth.Service
}

func NewAppointmentHandler(svc appointment.Service, sessions auth.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, sessions: sessions}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrPatientRequired),
		errors.Is(err, appointment.ErrUnknownPatient),
		errors.Is(err, appointment.ErrDatetimeRequired),
		errors.Is(err, appointment.ErrInvalidStatus):
		return badRequest(c, err.Error())
	case errors.Is(err, fiber.ErrUnauthorized):
		return err
	default:
		return internalError(c)
	}
}

type appointmentBody struct {
	PatientID string `json:"patientId"`
	Doctor    string `json:"doctor"`
	Datetime  string `json:"datetime"`
}

func (b appointmentBody) request() (appointment.CreateRequest, bool) {
	req := appointment.CreateRequest{PatientID: b.PatientID, Doctor: b.Doctor}
	if b.Datetime == "" {
		return req, true
	}
	at, valid := parseDatetime(b.Datetime)
	req.Datetime = at
	return req, valid
}

// GET /appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, h.svc.List(c.Context(), ws))
}

// POST /appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	var body appointmentBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	req, valid := body.request()
	if !valid {
		return badRequest(c, "invalid datetime")
	}

	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	appt, err := h.svc.Create(c.Context(), ws, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}

// PATCH /appointments/:id
func (h *AppointmentHandler) UpdateStatus(c fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	appt, err := h.svc.UpdateStatus(c.Context(), ws, c.Params("id"), body.Status)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	if err := h.svc.Delete(c.Context(), ws, c.Params("id")); err != nil {
		return mapAppointmentError(c, err)
	}
	return noContent(c)
}

// GET /patients/:id/appointments
func (h *AppointmentHandler) ForPatient(c fiber.Ctx) error {
	return ok(c, h.svc.ForPatient(c.Context(), c.Params("id")))
}
