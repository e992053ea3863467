package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/payment"
)

type PaymentHandler struct {
	svc      payment.Service
	sessions auth.Service
}

func NewPaymentHandler(svc payment.Service, sessions auth.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc, sessions: sessions}
}

func mapPaymentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, payment.ErrPatientRequired), errors.Is(err, payment.ErrInvalidAmount):
		return badRequest(c, err.Error())
	case errors.Is(err, fiber.ErrUnauthorized):
		return err
	default:
		return internalError(c)
	}
}

// GET /payments
func (h *PaymentHandler) List(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapPaymentError(c, err)
	}
	return ok(c, fiber.Map{
		"payments": h.svc.List(c.Context(), ws),
		"total":    h.svc.Total(ws),
	})
}

// POST /payments
func (h *PaymentHandler) Create(c fiber.Ctx) error {
	var body struct {
		PatientID string  `json:"patientId"`
		Amount    float64 `json:"amount"`
		Method    string  `json:"method"`
		Note      string  `json:"note"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapPaymentError(c, err)
	}
	p, err := h.svc.Create(c.Context(), ws, payment.CreateRequest{
		PatientID: body.PatientID,
		Amount:    body.Amount,
		Method:    body.Method,
		Note:      body.Note,
	})
	if err != nil {
		return mapPaymentError(c, err)
	}
	return created(c, p)
}
