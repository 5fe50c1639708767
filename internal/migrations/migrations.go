// Package migrations holds the embedded schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

const TableName = "schema_migrations"

//go:embed sql/*.sql
var files embed.FS

// goose keeps its dialect and filesystem in package globals.
var mu sync.Mutex

func Up(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "postgres", "up")
}

// Down rolls back the latest migration.
func Down(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "postgres", "down")
}

func Status(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "postgres", "status")
}

func run(ctx context.Context, db *sql.DB, dialect, command string) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	goose.SetTableName(TableName)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "sql"); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
