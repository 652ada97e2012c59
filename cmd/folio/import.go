package main

import (
	"context"
	"fmt"
	"os"

	"github.com/btmxh/folio/internal/clock"
	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/errs"
	"github.com/btmxh/folio/internal/services"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <seed.yaml>",
	Short: "Insert the roles, tools, experiences and projects of a YAML seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		seed, err := services.ParseSeed(file)
		if err != nil {
			return err
		}

		if err = openDB(); err != nil {
			return err
		}
		defer db.CloseDB()

		handler := errs.NewCapturingErrorHandler()
		tx := db.BeginTx(context.Background(), handler)
		if tx == nil {
			return fmt.Errorf("import failed: %v", handler.Errors)
		}
		defer tx.Rollback()

		summary, hasErr := newCatalog(clock.Real()).Import(tx, seed)
		if hasErr || tx.Commit() {
			return fmt.Errorf("import failed after %s: %v", summary, handler.Errors)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", summary)
		return nil
	},
}
