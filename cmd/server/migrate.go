package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vcissuer/internal/platform/config"
	"vcissuer/internal/platform/database"
	"vcissuer/internal/platform/logger"
	"vcissuer/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return fmt.Errorf("database.url is required to migrate")
		}
		log := logger.New(cfg.Log.Level)

		ctx := cmd.Context()
		pool, err := database.New(ctx, databaseConfig(cfg))
		if err != nil {
			return err
		}
		defer pool.Close() //nolint:errcheck // process exits right after

		applied, err := database.Migrate(ctx, pool.DB(), migrations.FS)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "migrations applied", "count", len(applied), "files", applied)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
