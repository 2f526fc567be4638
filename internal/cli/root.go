// Package cli implements the earnbox command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earnbox/earnbox/internal/daemon"
)

var rootCmd = &cobra.Command{
	Use:   "earnbox",
	Short: "Local rewards ledger and earning tasks",
	Long: `earnbox keeps a local ledger of small task rewards.
Run 'earnbox serve' to start the daemon that drives the reward surfaces and
serves the browser dashboard API. The ledger, earn and withdraw commands work
directly on the stored ledger.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default $EARNBOX_HOME/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// loadConfig reads the --config file or the default one.
func loadConfig(cmd *cobra.Command) (daemon.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = daemon.DefaultConfigPath()
	}
	return daemon.LoadConfig(path)
}
