package main

import (
	"context"
	"fmt"

	"codetrek/internal/platform/config"
	"codetrek/internal/platform/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.DBDriver != config.DriverPostgres {
			return fmt.Errorf("migrate needs DB_DRIVER=%s, got %q", config.DriverPostgres, cfg.DBDriver)
		}
		ctx := context.Background()
		db, err := database.Connect(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			log.Error("Migration failed", "error", err)
			return err
		}
		log.Info("Schema is up to date")
		return nil
	},
}
