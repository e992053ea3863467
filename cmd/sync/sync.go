// Package sync holds the operator commands that drive the prescription
// synchronization engine outside the HTTP server.
package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/app"
)

func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Prescription synchronization commands",
	}

	cmd.AddCommand(NewReconcileCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}

// startGraph builds the infra and service graph without HTTP or workers and
// fills targets. The returned func stops it.
func startGraph(cmd *cobra.Command, targets ...any) (*config.Config, func(), error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	fxApp := fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		fx.Populate(targets...),
		fx.NopLogger,
	)

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		return nil, nil, err
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = fxApp.Stop(ctx)
	}
	return cfg, stop, nil
}
