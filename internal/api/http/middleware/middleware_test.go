package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/partition/partitiontest"
	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/authorize"
	"github.com/Alijeyrad/kliniksehat/pkg/reqctx"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(reqctx.RequestIDFromContext(c.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "rid-1", resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}

func TestSessionAndPermission(t *testing.T) {
	env := partitiontest.New(t)
	ctx := context.Background()
	engine := syncer.New(env.Repo, env.Roles, env.Log)
	sessions := auth.New(env.Repo, syncer.NewFreshener(engine, nil), env.Log)
	authz, err := authorize.NewClinicAuthorization(ctx, env.Log)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/patients", SessionRequired(sessions),
		RequirePermission(authz, authorize.ResourcePatient, authorize.ActionCreate),
		func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	login := func(username string) string {
		sess, err := sessions.Login(ctx, auth.LoginRequest{Username: username, Password: "demo"})
		require.NoError(t, err)
		return sess.Token
	}
	call := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/patients", nil)
		if token != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, call(""))
	assert.Equal(t, fiber.StatusUnauthorized, call("not-a-session"))
	assert.Equal(t, fiber.StatusForbidden, call(login("kasir1")))
	assert.Equal(t, fiber.StatusCreated, call(login("petugas1")))
}

func TestLimiter(t *testing.T) {
	app := fiber.New()
	app.Use(NewLimiter(nil, 2, time.Minute))
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := []int{}
	for range 3 {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, codes)
}
