package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every open.
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
		id          TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		input       TEXT NOT NULL DEFAULT '',
		rows        INTEGER NOT NULL DEFAULT 0,
		model_kind  TEXT NOT NULL
		            CHECK(model_kind IN ('tree','forest')),
		mae         REAL NOT NULL DEFAULT 0,
		rmse        REAL NOT NULL DEFAULT 0,
		r2          REAL NOT NULL DEFAULT 0,
		cv_mean     REAL,
		cv_std      REAL,
		valid       INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,

	`CREATE TABLE IF NOT EXISTS roast_results (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position         INTEGER NOT NULL,
		user_id          TEXT NOT NULL,
		app_name         TEXT NOT NULL,
		actual_usage     REAL NOT NULL,
		predicted_usage  REAL NOT NULL,
		roast_intensity  TEXT NOT NULL,
		roast_category   TEXT NOT NULL,
		day_of_week      TEXT NOT NULL DEFAULT '',
		roast_prompt     TEXT NOT NULL,
		generated_text   TEXT NOT NULL DEFAULT '',
		UNIQUE(run_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_roast_results_run ON roast_results(run_id)`,

	`ALTER TABLE runs ADD COLUMN provider TEXT NOT NULL DEFAULT ''`,
}
