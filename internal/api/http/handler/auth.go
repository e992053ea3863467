package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/pkg/reqctx"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrEmptyCredentials):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrRoleMismatch):
		return unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrSessionNotFound):
		return unauthorized(c, err.Error())
	default:
		return internalError(c)
	}
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sess, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Username: body.Username,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, sess)
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	id := reqctx.MustIdentity(c.Context())
	if err := h.svc.Logout(c.Context(), id.Token); err != nil {
		return mapAuthError(c, err)
	}
	return noContent(c)
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	id := reqctx.MustIdentity(c.Context())
	sess, err := h.svc.Current(c.Context(), id.Token)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, sess)
}

// GET /api/v1/auth/users
func (h *AuthHandler) Users(c fiber.Ctx) error {
	return ok(c, h.svc.Users())
}
