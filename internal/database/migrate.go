package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_console_state.up.sql
var consoleStateSQL string

const stateTable = "console_state"

// EnsureSchema creates the console state table when it is missing. The SQL is
// idempotent, so concurrent consoles starting against one database are fine.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasStateTable(ctx)
	if err != nil {
		return fmt.Errorf("check state table: %w", err)
	}

	if !exists {
		slog.Info("console state table missing; applying migration")
		if _, err := db.Pool.Exec(ctx, consoleStateSQL); err != nil {
			return fmt.Errorf("apply console state migration: %w", err)
		}
	}

	slog.Info("database schema ensured", "table", stateTable)
	return nil
}

func (db *DB) hasStateTable(ctx context.Context) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			  AND table_name = $1
		)
	`, stateTable).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
