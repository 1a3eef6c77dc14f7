package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// schemaStatements are executed in order to create the database schema.
// All use IF NOT EXISTS for idempotent re-application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS facts (
		id              TEXT PRIMARY KEY,
		type            TEXT NOT NULL,
		content         TEXT NOT NULL,
		context         TEXT NOT NULL DEFAULT '',
		importance      TEXT NOT NULL DEFAULT 'medium',
		timestamp       TEXT NOT NULL,
		last_referenced TEXT NOT NULL DEFAULT ''
	)`,

	// Deduplication identity: same type plus case-insensitive content.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_facts_identity ON facts(type, lower(content))`,

	`CREATE INDEX IF NOT EXISTS idx_facts_timestamp ON facts(timestamp)`,

	`CREATE TABLE IF NOT EXISTS journal_entries (
		id             TEXT PRIMARY KEY,
		start_mood     INTEGER NOT NULL,
		end_mood       INTEGER NOT NULL,
		summary        TEXT NOT NULL,
		key_points     TEXT NOT NULL DEFAULT '[]',
		developments   TEXT NOT NULL DEFAULT '[]',
		user_feedback  TEXT NOT NULL DEFAULT '',
		interpretation TEXT NOT NULL DEFAULT '',
		turn_count     INTEGER NOT NULL DEFAULT 0,
		timestamp      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_journal_timestamp ON journal_entries(timestamp)`,

	`CREATE TABLE IF NOT EXISTS session_snapshots (
		session_id TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// migrate creates or updates the database schema to the latest version.
// All DDL uses IF NOT EXISTS, making migration idempotent.
func migrate(db *sql.DB) error {
	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("sqlite: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w\nstatement: %s", err, stmt)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("sqlite: record schema version: %w", err)
	}

	return nil
}
