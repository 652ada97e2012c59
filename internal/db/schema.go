package db

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables the service needs. Every statement is
// idempotent so it is safe to run on each deploy.
func Migrate(ctx context.Context) error {
	_, err := DB.ExecContext(ctx, schema)
	return err
}
