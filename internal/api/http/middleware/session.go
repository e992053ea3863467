package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/pkg/reqctx"
)

// SessionRequired resolves a Bearer session token and puts the caller's
// identity on the request context.
func SessionRequired(sessions auth.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.ErrUnauthorized
		}

		sess, err := sessions.Current(c.Context(), token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.SetContext(reqctx.WithIdentity(c.Context(), &reqctx.Identity{
			Token:    sess.Token,
			Username: sess.Username,
			Role:     sess.Role,
			Name:     sess.Name,
		}))
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
