package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Session credential (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id TEXT NOT NULL,
			token TEXT NOT NULL,
			expires_at INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Run history. owner is '' for runs recorded locally without an account,
		// otherwise the user ID of the remote account.
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			territory TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'outdoor',
			distance_km REAL NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			avg_speed_kmh REAL NOT NULL DEFAULT 0,
			avg_pace REAL NOT NULL DEFAULT 0,
			max_speed_kmh REAL NOT NULL DEFAULT 0,
			calories INTEGER NOT NULL DEFAULT 0,
			avg_heart_rate INTEGER,
			heart_rate_zone1 INTEGER,
			heart_rate_zone2 INTEGER,
			heart_rate_zone3 INTEGER,
			heart_rate_zone4 INTEGER,
			heart_rate_zone5 INTEGER,
			samples TEXT NOT NULL DEFAULT '[]',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_owner_date ON runs(owner, date)`,

		// Accounts of the runs service
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
