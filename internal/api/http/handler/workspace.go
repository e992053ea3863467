package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/pkg/reqctx"
)

// workspaceOf opens the caller's role partition.
func workspaceOf(c fiber.Ctx, sessions auth.Service) (*partition.Workspace, error) {
	id := reqctx.IdentityFromContext(c.Context())
	if id == nil {
		return nil, fiber.ErrUnauthorized
	}
	return sessions.Workspace(c.Context(), sessionOf(id))
}

func sessionOf(id *reqctx.Identity) *auth.Session {
	return &auth.Session{Token: id.Token, Username: id.Username, Role: id.Role, Name: id.Name}
}

func actorOf(c fiber.Ctx) (partition.Actor, bool) {
	id := reqctx.IdentityFromContext(c.Context())
	if id == nil {
		return partition.Actor{}, false
	}
	return partition.Actor{Username: id.Username, Name: id.Name}, true
}

// datetime-local inputs send minutes without a zone
var datetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"}

func parseDatetime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
