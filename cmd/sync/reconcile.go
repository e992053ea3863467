package sync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

func NewReconcileCommand() *cobra.Command {
	var roles []string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild a role's prescriptions from every partition",
		Long: `Reconcile merges the prescriptions of every registered partition into the
given roles' partitions. Without --role every consumer role is reconciled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				engine   syncer.Service
				registry *partition.Registry
			)
			cfg, stop, err := startGraph(cmd, &engine, &registry)
			if err != nil {
				return err
			}
			defer stop()

			if len(roles) == 0 {
				roles = cfg.Sync.ConsumerRoles
			}
			for _, r := range roles {
				role, ok := registry.Canonical(r)
				if !ok {
					return fmt.Errorf("%w: %q", syncer.ErrUnknownRole, r)
				}
				p, err := engine.Reconcile(cmd.Context(), role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d prescriptions\n", role, len(p.Prescriptions))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&roles, "role", nil, "role to reconcile (repeatable)")

	return cmd
}
