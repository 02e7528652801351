package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/finance_tracker/internal/platform/logging"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/pgsql"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.GetLoggerFromCtx(cmd.Context())
			log.Info("Running database migrations...")

			applied, err := pgsql.RunMigrations(cfg.DatabaseURL)
			if err != nil {
				log.Error("Failed to apply migrations", slog.String("error", err.Error()))
				return err
			}

			if applied {
				fmt.Println("Database migrations applied successfully.")
			} else {
				fmt.Println("No new migrations to apply.")
			}
			return nil
		},
	}
}
