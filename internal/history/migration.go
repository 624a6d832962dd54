package history

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 2

// RunMigrations applies any pending database migrations
func (l *Log) RunMigrations() error {
	if _, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS history_schema_version (
		version INTEGER PRIMARY KEY
	)`); err != nil {
		return fmt.Errorf("failed to create version table: %w", err)
	}

	version, err := l.schemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		if err := l.migrateToV1(); err != nil {
			return fmt.Errorf("migration to v1 failed: %w", err)
		}
	}

	if version < 2 {
		if err := l.migrateToV2(); err != nil {
			return fmt.Errorf("migration to v2 failed: %w", err)
		}
	}

	return nil
}

// schemaVersion returns the current schema version, 0 for a new database
func (l *Log) schemaVersion() (int, error) {
	var version sql.NullInt64
	if err := l.db.QueryRow("SELECT MAX(version) FROM history_schema_version").Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

func (l *Log) setSchemaVersion(version int) error {
	_, err := l.db.Exec("INSERT OR REPLACE INTO history_schema_version (version) VALUES (?)", version)
	return err
}

// migrateToV1 creates the history table
func (l *Log) migrateToV1() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS edit_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			edit_id TEXT NOT NULL,
			action_type TEXT NOT NULL,
			element_key TEXT NOT NULL,
			outcome TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_edit ON edit_history(edit_id)`,
	}
	for _, migration := range migrations {
		if _, err := l.db.Exec(migration); err != nil {
			return err
		}
	}
	return l.setSchemaVersion(1)
}

// migrateToV2 adds apply durations and the element lookup index
func (l *Log) migrateToV2() error {
	if !l.columnExists("edit_history", "duration_ms") {
		if _, err := l.db.Exec(`ALTER TABLE edit_history ADD COLUMN duration_ms INTEGER NOT NULL DEFAULT 0`); err != nil {
			return err
		}
	}
	if _, err := l.db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_element ON edit_history(element_key)`); err != nil {
		return err
	}
	return l.setSchemaVersion(2)
}

func (l *Log) columnExists(table, column string) bool {
	var count int
	err := l.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&count)
	return err == nil && count > 0
}
