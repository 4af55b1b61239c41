package repository

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
)

// Schema creates the schedules and occurrences tables if they do not exist.
//
//go:embed schema.sql
var Schema string

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
