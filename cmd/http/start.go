package http

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/api/http"
	"github.com/Alijeyrad/kliniksehat/internal/api/http/router"
	"github.com/Alijeyrad/kliniksehat/internal/app"
	"github.com/Alijeyrad/kliniksehat/pkg/logs"
)

type startOptions struct {
	port            int
	withoutWorkers  bool
	shutdownTimeout time.Duration
}

func NewStartCommand() *cobra.Command {
	opts := startOptions{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the clinic API and run the sync workers",
		Long: `Start serves /api/v1 and, unless --no-workers is given, runs the marker
watcher, the NATS prescription subscriber and the resync schedule in the
same process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}
			if opts.port > 0 {
				cfg.Server.Port = opts.port
			}

			log := logs.New(cfg)
			slog.SetDefault(log)
			log.Info("kliniksehat starting",
				slog.String("store", cfg.Store.Driver),
				slog.Int("port", cfg.Server.Port),
				slog.String("consumers", strings.Join(cfg.Sync.ConsumerRoles, ",")),
				slog.String("propagate_to", strings.Join(cfg.Sync.PropagateTo, ",")),
			)

			modules := []fx.Option{
				fx.Supply(cfg),
				app.InfraModule,
				app.ServiceModule,
				router.Module,
				http.Module,
				fx.Invoke(func(*fiber.App) {}),
				fx.StopTimeout(opts.shutdownTimeout),
				fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
			}
			if !opts.withoutWorkers {
				modules = append(modules, app.WorkerModule)
			}

			fxApp := fx.New(modules...)
			if err := fxApp.Err(); err != nil {
				return err
			}
			fxApp.Run()
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&opts.withoutWorkers, "no-workers", false, "serve HTTP only")
	cmd.Flags().DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 30*time.Second, "graceful shutdown limit")

	return cmd
}
