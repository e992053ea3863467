package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/kliniksehat/cmd/http"
	synccmd "github.com/Alijeyrad/kliniksehat/cmd/sync"
	systemcmd "github.com/Alijeyrad/kliniksehat/cmd/system"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kliniksehat",
	Short: "Klinik Sehat clinic management backend.",
	Long: `Klinik Sehat keeps one data partition per clinic role and synchronizes
prescriptions between them, so a pharmacist sees what a physician prescribed
without a shared table.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(synccmd.NewSyncCommand())
}
