package system

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the global patient list and every role partition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd, func(ctx context.Context, repo *partition.Repository, roles []string) error {
				created := repo.Bootstrap(ctx, roles)
				fmt.Fprintf(cmd.OutOrStdout(), "Store initialized: %d of %d partitions created.\n", created, len(roles))
				return nil
			})
		},
	}

	return cmd
}
