package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iho/profitshare/internal/infrastructure/config"
	"github.com/iho/profitshare/internal/infrastructure/logger"
	"github.com/iho/profitshare/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if databaseURL == "" {
				databaseURL = cfg.DatabaseURL
			}
			if migrationsPath == "" {
				migrationsPath = cfg.MigrationsPath
			}

			log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: cmd.ErrOrStderr()})

			if args[0] == "down" {
				return postgres.RunMigrationsDown(databaseURL, migrationsPath, log)
			}
			return postgres.RunMigrations(databaseURL, migrationsPath, log)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Database URL (defaults to DATABASE_URL)")
	cmd.Flags().StringVar(&migrationsPath, "path", "", "Migrations directory (defaults to MIGRATIONS_PATH)")

	return cmd
}
