package store

import "database/sql"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS fetch_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pass_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		module TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		ok INTEGER NOT NULL DEFAULT 1,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_samples_module_ts ON fetch_samples(module, timestamp);
	CREATE INDEX IF NOT EXISTS idx_samples_pass ON fetch_samples(pass_id);
	CREATE INDEX IF NOT EXISTS idx_samples_ts ON fetch_samples(timestamp);`,

	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS module_state (
		module_id TEXT PRIMARY KEY,
		enabled INTEGER NOT NULL DEFAULT 1
	);`,

	`CREATE TABLE IF NOT EXISTS dashboard_layouts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT 'default',
		layout TEXT NOT NULL,
		updated INTEGER NOT NULL
	);`,
}

func runMigrations(db *sql.DB) error {
	// Create migration tracking table
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", i+1); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
