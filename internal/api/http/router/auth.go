package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, sessionRequired fiber.Handler) {
	group := api.Group("/auth")
	group.Get("/users", h.Users)
	group.Post("/login", h.Login)
	group.Post("/logout", sessionRequired, h.Logout)
	group.Get("/me", sessionRequired, h.Me)
}
