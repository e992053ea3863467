package system

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/app"
	"github.com/Alijeyrad/kliniksehat/internal/partition"
)

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Maintenance and tooling commands",
	}

	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewGenDocsCommand())
	cmd.AddCommand(NewInitCommand())

	return cmd
}

// withRepository runs fn against the configured store.
func withRepository(cmd *cobra.Command, fn func(ctx context.Context, repo *partition.Repository, roles []string) error) error {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var (
		repo     *partition.Repository
		registry *partition.Registry
	)
	fxApp := fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		fx.Provide(app.ProvideRoles, app.ProvideRepository),
		fx.Populate(&repo, &registry),
		fx.NopLogger,
	)

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = fxApp.Stop(context.Background()) }()

	return fn(ctx, repo, registry.Roles())
}
