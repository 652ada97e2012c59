package main

import (
	"context"
	"log/slog"

	"github.com/btmxh/folio/internal/db"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openDB(); err != nil {
			return err
		}
		defer db.CloseDB()

		if err := db.Migrate(context.Background()); err != nil {
			return err
		}

		slog.Info("Database schema up to date")
		return nil
	},
}
