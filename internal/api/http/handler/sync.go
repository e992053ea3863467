package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

type SyncHandler struct {
	engine   syncer.Service
	roles    *partition.Registry
	sessions auth.Service
}

func NewSyncHandler(engine syncer.Service, roles *partition.Registry, sessions auth.Service) *SyncHandler {
	return &SyncHandler{engine: engine, roles: roles, sessions: sessions}
}

// POST /sync/reconcile?role=
//
// Without a role the caller's own partition is reconciled.
func (h *SyncHandler) Reconcile(c fiber.Ctx) error {
	if q := c.Query("role"); q != "" {
		role, found := h.roles.Canonical(q)
		if !found {
			return badRequest(c, syncer.ErrUnknownRole.Error())
		}
		p, err := h.engine.Reconcile(c.Context(), role)
		if err != nil {
			return internalError(c)
		}
		return ok(c, fiber.Map{"role": role, "prescriptions": len(p.Prescriptions)})
	}

	ws, err := workspaceOf(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.engine.ReconcileInto(c.Context(), ws); err != nil {
		if errors.Is(err, syncer.ErrUnknownRole) {
			return badRequest(c, err.Error())
		}
		return internalError(c)
	}
	return ok(c, fiber.Map{"role": ws.Role, "prescriptions": len(ws.Partition.Prescriptions)})
}
