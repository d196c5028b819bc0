package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rankboard",
	Short: "Monthly company ranking dashboard",
	Long: `rankboard serves monthly company ranking tables and their sector breakdown.

Each month's ranking table comes from the configured source (SOURCE_KIND):
a multi-sheet workbook, a zip archive, a directory of CSV files, a remote
per-month file server, or PostgreSQL.

Usage:
  go run ./cmd/rankboard [command]

Examples:
  go run ./cmd/rankboard api
  go run ./cmd/rankboard show --month June --year 2023 --sector Energy --top "top 100"
  go run ./cmd/rankboard chart --month June --year 2023 --top "top 200" --trend
  go run ./cmd/rankboard periods
  go run ./cmd/rankboard warm`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug|info|warn|error)")
}
