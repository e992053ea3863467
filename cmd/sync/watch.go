package sync

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/notify"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

func NewWatchCommand() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reconcile a role whenever another process creates a prescription",
		Long: `Watch acts as one more session of the given role. It listens for the
prescription marker written by other processes sharing the store and
reconciles the role's partition each time, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				backend  kvstore.Backend
				repo     *partition.Repository
				registry *partition.Registry
				engine   syncer.Service
				fresh    *syncer.Freshener
				log      *slog.Logger
			)
			_, stop, err := startGraph(cmd, &backend, &repo, &registry, &engine, &fresh, &log)
			if err != nil {
				return err
			}
			defer stop()

			canonical, ok := registry.Canonical(role)
			if !ok {
				return fmt.Errorf("%w: %q", syncer.ErrUnknownRole, role)
			}
			if !fresh.IsConsumer(canonical) {
				return fmt.Errorf("%q is not a consumer role; nothing to watch", canonical)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			ws := repo.Open(ctx, canonical, partition.Actor{Username: "cli", Name: "CLI"})
			if err := fresh.EnsureFresh(ctx, ws); err != nil {
				return err
			}

			w := notify.NewWatcher(backend, engine, fresh, log)
			w.OnRefresh = func(ws *partition.Workspace) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d prescriptions\n", ws.Role, len(ws.Partition.Prescriptions))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s (%d prescriptions)\n", canonical, len(ws.Partition.Prescriptions))

			if err := w.Run(ctx, ws); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "consumer role to watch")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
