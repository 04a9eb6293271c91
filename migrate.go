package main

import (
	"fmt"

	"github.com/spf13/cobra"

	database "sprout_backend/internals/databases"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("schema migrated", "tables", len(database.Models()))
			return nil
		},
	}
}
