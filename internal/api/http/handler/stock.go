package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/stock"
)

type StockHandler struct {
	svc      stock.Service
	sessions auth.Service
}

func NewStockHandler(svc stock.Service, sessions auth.Service) *StockHandler {
	return &StockHandler{svc: svc, sessions: sessions}
}

func mapStockError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, stock.ErrItemNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, stock.ErrNameRequired), errors.Is(err, stock.ErrNegativeCount):
		return badRequest(c, err.Error())
	case errors.Is(err, fiber.ErrUnauthorized):
		return err
	default:
		return internalError(c)
	}
}

type stockBody struct {
	Name         string `json:"name"`
	Qty          int    `json:"qty"`
	Unit         string `json:"unit"`
	MinThreshold int    `json:"minThreshold"`
}

// GET /stock
func (h *StockHandler) List(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapStockError(c, err)
	}
	return ok(c, h.svc.List(c.Context(), ws))
}

// GET /stock/low
func (h *StockHandler) Low(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapStockError(c, err)
	}
	return ok(c, h.svc.Low(ws))
}

// POST /stock
func (h *StockHandler) Create(c fiber.Ctx) error {
	return h.upsert(c, "", fiber.StatusCreated)
}

// PUT /stock/:id
func (h *StockHandler) Update(c fiber.Ctx) error {
	return h.upsert(c, c.Params("id"), fiber.StatusOK)
}

func (h *StockHandler) upsert(c fiber.Ctx, id string, status int) error {
	var body stockBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapStockError(c, err)
	}
	item, err := h.svc.Upsert(c.Context(), ws, stock.UpsertRequest{
		ID:           id,
		Name:         body.Name,
		Qty:          body.Qty,
		Unit:         body.Unit,
		MinThreshold: body.MinThreshold,
	})
	if err != nil {
		return mapStockError(c, err)
	}
	return c.Status(status).JSON(fiber.Map{"data": item})
}

// DELETE /stock/:id
func (h *StockHandler) Delete(c fiber.Ctx) error {
	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return mapStockError(c, err)
	}
	if err := h.svc.Delete(c.Context(), ws, c.Params("id")); err != nil {
		return mapStockError(c, err)
	}
	return noContent(c)
}
