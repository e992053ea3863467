// Package http holds the commands that serve the clinic API.
package http

import "github.com/spf13/cobra"

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Clinic API server",
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
