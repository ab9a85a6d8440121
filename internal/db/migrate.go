package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; the
// migration system re-runs the whole list on every open.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id              TEXT PRIMARY KEY,
		prompt_name     TEXT NOT NULL DEFAULT '',
		command         TEXT NOT NULL,
		args            TEXT NOT NULL DEFAULT '[]',
		rendered_prompt TEXT NOT NULL DEFAULT '',
		output_file     TEXT NOT NULL DEFAULT '',
		exit_code       INTEGER,
		truncated       INTEGER NOT NULL DEFAULT 0,
		output_bytes    INTEGER NOT NULL DEFAULT 0,
		error           TEXT NOT NULL DEFAULT '',
		started_at      TEXT NOT NULL,
		duration_ms     INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_prompt ON runs(prompt_name)`,

	`CREATE TABLE IF NOT EXISTS annotations (
		id         TEXT PRIMARY KEY,
		run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		note       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_annotations_run ON annotations(run_id)`,
}
