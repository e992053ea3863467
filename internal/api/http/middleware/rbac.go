package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/pkg/authorize"
	"github.com/Alijeyrad/kliniksehat/pkg/reqctx"
)

// RequirePermission checks the caller's role against the policy table. It
// must run after SessionRequired.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := reqctx.IdentityFromContext(c.Context())
		if id == nil {
			return fiber.ErrUnauthorized
		}

		subject := authorize.Subject(partition.RoleKey(id.Role))
		if err := auth.MustEnforce(c.Context(), subject, resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				return fiber.ErrForbidden
			}
			return err
		}
		return c.Next()
	}
}
