// internal/database/schema.go
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Column types that differ between dialects
type dialect struct {
	timestamp string
	boolean   string
}

func dialectFor(driver string) dialect {
	switch driver {
	case DriverPostgres, DriverPgx:
		return dialect{timestamp: "TIMESTAMPTZ", boolean: "BOOLEAN"}
	default:
		// go-sqlite3 only converts columns declared TIMESTAMP/DATETIME back to time.Time
		return dialect{timestamp: "TIMESTAMP", boolean: "BOOLEAN"}
	}
}

func schemaStatements(d dialect) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    ` + d.timestamp + ` NOT NULL
		)`,
		// created_at is kept as RFC 3339 text so nanoseconds survive on every dialect
		`CREATE TABLE IF NOT EXISTS tasks (
			id           TEXT NOT NULL,
			owner_id     TEXT NOT NULL,
			position     INTEGER NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			is_completed ` + d.boolean + ` NOT NULL DEFAULT FALSE,
			tags         TEXT NOT NULL DEFAULT '[]',
			priority     TEXT NOT NULL DEFAULT 'MEDIUM',
			created_at   TEXT NOT NULL,
			PRIMARY KEY (owner_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_position ON tasks(owner_id, position)`,
	}
}

// Migrate creates the users and tasks tables if they do not exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements(dialectFor(db.DriverName())) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run migration %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
