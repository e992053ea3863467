package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/internal/service/appointment"
	"github.com/Alijeyrad/kliniksehat/internal/service/medrecord"
	"github.com/Alijeyrad/kliniksehat/internal/service/patient"
	"github.com/Alijeyrad/kliniksehat/internal/service/prescription"
)

// MeHandler serves the patient-facing pages. The caller's patient record is
// matched by display name and created on first use.
type MeHandler struct {
	patients      patient.Service
	appointments  appointment.Service
	records       medrecord.Service
	prescriptions prescription.Service
}

func NewMeHandler(
	patients patient.Service,
	appointments appointment.Service,
	records medrecord.Service,
	prescriptions prescription.Service,
) *MeHandler {
	return &MeHandler{
		patients:      patients,
		appointments:  appointments,
		records:       records,
		prescriptions: prescriptions,
	}
}

func (h *MeHandler) self(c fiber.Ctx) (*record.Patient, error) {
	actor, found := actorOf(c)
	if !found {
		return nil, fiber.ErrUnauthorized
	}
	return h.patients.EnsureForUser(c.Context(), actor)
}

// GET /me/appointments
func (h *MeHandler) Appointments(c fiber.Ctx) error {
	p, err := h.self(c)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, h.appointments.ForPatient(c.Context(), p.ID))
}

// GET /me/history
func (h *MeHandler) History(c fiber.Ctx) error {
	p, err := h.self(c)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, h.records.History(c.Context(), p.ID))
}

// GET /me/prescriptions
func (h *MeHandler) Prescriptions(c fiber.Ctx) error {
	p, err := h.self(c)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, h.prescriptions.ForPatient(c.Context(), p.ID))
}

// POST /me/queue
func (h *MeHandler) Queue(c fiber.Ctx) error {
	var body appointmentBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	req, valid := body.request()
	if !valid {
		return badRequest(c, "invalid datetime")
	}

	p, err := h.self(c)
	if err != nil {
		return mapPatientError(c, err)
	}
	actor, _ := actorOf(c)
	req.PatientID = p.ID

	appt, err := h.appointments.NewQueue(c.Context(), actor, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}
