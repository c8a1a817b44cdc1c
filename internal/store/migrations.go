package store

import "github.com/pkg/errors"

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Garments table - one row per asset file with its cached visible bounds
		`CREATE TABLE IF NOT EXISTS garments (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			class TEXT NOT NULL CHECK(class IN ('top', 'bottom', 'shoes', 'fullbody')),
			size INTEGER NOT NULL DEFAULT 0,
			mod_time DATETIME,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			bounds_left INTEGER,
			bounds_top INTEGER,
			bounds_right INTEGER,
			bounds_bottom INTEGER,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_garments_class ON garments(class)`,
	}

	for i, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return errors.Wrapf(err, "migration %d", i)
		}
	}

	return nil
}
