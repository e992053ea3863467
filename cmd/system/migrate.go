package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Repair stored partitions written by older clients",
		Long: `Migrate rewrites every stored role partition that is missing one of its
collections. An undecodable partition is archived under <key>_corrupt_<ms>
and reset. Absent partitions are not created; use "system init" for that.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd, func(ctx context.Context, repo *partition.Repository, roles []string) error {
				fixed := repo.Repair(ctx, roles)
				if len(fixed) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "All partitions are up to date.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Repaired: %s\n", strings.Join(fixed, ", "))
				return nil
			})
		},
	}

	return cmd
}
