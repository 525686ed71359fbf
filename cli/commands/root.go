// Package commands implements the dbal CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dbal-go/dbal/cli/internal/ui"
	"github.com/dbal-go/dbal/internal/config"
	"github.com/dbal-go/dbal/internal/debug"
)

var rootFlags struct {
	url       string
	provider  string
	version   string
	fetchMode string
	debug     bool
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:           "dbal",
		Short:         "Portable SQL runner and schema inspector",
		Long:          "dbal translates portable query fragments into engine-specific SQL and runs them against PostgreSQL, MySQL, SQLite, or SQL Server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if rootFlags.url == "" {
				rootFlags.url = cfg.DatabaseURL
			}
			if !cmd.Flags().Changed("provider") && cfg.Provider != "" {
				rootFlags.provider = cfg.Provider
			}
			if rootFlags.version == "" {
				rootFlags.version = cfg.ServerVersion
			}
			if !cmd.Flags().Changed("fetch-mode") && cfg.FetchMode != "" {
				rootFlags.fetchMode = cfg.FetchMode
			}
			debug.Init(rootFlags.debug || cfg.Debug)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&rootFlags.url, "url", "", "Database connection string (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.provider, "provider", "sqlite", "Database provider: postgres, mysql, sqlite, sqlserver")
	rootCmd.PersistentFlags().StringVar(&rootFlags.version, "server-version", "", "Engine server version, used for feature gating")
	rootCmd.PersistentFlags().StringVar(&rootFlags.fetchMode, "fetch-mode", "buffered", "Result fetch mode: buffered or streaming")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewQueryCommand())
	rootCmd.AddCommand(NewExecCommand())
	rootCmd.AddCommand(NewSchemaCommand())
	rootCmd.AddCommand(NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}
