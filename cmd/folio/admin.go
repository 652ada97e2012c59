package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/errs"
	"github.com/btmxh/folio/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	adminCmd.AddCommand(adminAddCmd)
	rootCmd.AddCommand(adminCmd)
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an admin account",
	Long:  "Create an admin account. The password is read from FOLIO_ADMIN_PASSWORD, or prompted for on stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, err := readPassword()
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
			return fmt.Errorf("unable to create admin %q: %v", username, handler.Errors)
		}
		defer tx.Rollback()

		if services.CreateAdmin(tx, username, password) || tx.Commit() {
			return fmt.Errorf("unable to create admin %q: %v", username, handler.Errors)
		}

		slog.Info("Admin created", "username", username)
		return nil
	},
}

func readPassword() (string, error) {
	if password, ok := os.LookupEnv("FOLIO_ADMIN_PASSWORD"); ok {
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(password), err
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("unable to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
