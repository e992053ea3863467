package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/api/http/middleware"
	"github.com/Alijeyrad/kliniksehat/internal/api/http/router"
	"github.com/Alijeyrad/kliniksehat/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Log       *slog.Logger
	Router    *router.Router
	Redis     *redis.Client           `optional:"true"`
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	app := New(p.Cfg, p.Redis, p.OTel != nil)
	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					p.Log.Error("HTTP server error", "error", err)
				}
			}()
			p.Log.Info("HTTP server listening", slog.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// New builds the app with global middleware and no routes.
func New(cfg *config.Config, rdb *redis.Client, traced bool) *fiber.App {
	app := fiber.New(fiber.Config{AppName: cfg.Observability.ServiceName})

	if traced && cfg.Observability.Enabled {
		app.Use(observability.FiberMiddleware(cfg.Observability.ServiceName))
	}

	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORS.AllowOrigins}))
	}
	if cfg.Server.Environment == "production" {
		app.Use(helmet.New())
		app.Use(middleware.NewLimiter(rdb, 60, 30*time.Second))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${locals:request_id}] ${method} ${url} ${status}\n",
	}))
	return app
}
