package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one versioned schema step. Versions are applied in order and
// recorded in schema_migrations, so a restart never re-runs an applied step.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create articles table",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS articles (
    id           SERIAL PRIMARY KEY,
    url          TEXT NOT NULL UNIQUE,
    title        TEXT NOT NULL DEFAULT '',
    summary      TEXT NOT NULL DEFAULT '',
    author       TEXT NOT NULL DEFAULT '',
    section      TEXT NOT NULL DEFAULT '',
    body         TEXT NOT NULL DEFAULT '',
    source_key   TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		},
	},
	{
		version: 2,
		name:    "add article indexes",
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_articles_source_key ON articles(source_key)`,
		},
	},
	{
		version: 3,
		name:    "add favorite flag",
		stmts: []string{
			`ALTER TABLE articles ADD COLUMN IF NOT EXISTS is_favorite BOOLEAN NOT NULL DEFAULT FALSE`,
		},
	},
}

// MigrateUp brings the schema up to the latest version. Each pending
// migration runs in its own transaction.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("MigrateUp: create schema_migrations: %w", err)
	}

	var current sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("MigrateUp: read current version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && int64(m.version) <= current.Int64 {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return err
		}
		slog.Info("migration applied",
			slog.Int("version", m.version),
			slog.String("name", m.name))
	}

	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("MigrateUp: begin migration %d: %w", m.version, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("MigrateUp: migration %d (%s): %w", m.version, m.name, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
		return fmt.Errorf("MigrateUp: record migration %d: %w", m.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("MigrateUp: commit migration %d: %w", m.version, err)
	}
	return nil
}
