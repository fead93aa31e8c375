package database

import (
	"fmt"
	"log/slog"
)

type migration struct {
	version string
	sql     map[string]string
}

// Migrations are keyed by driver so the same runner covers postgres and sqlite.
var migrations = []migration{
	{
		version: "001_create_collections",
		sql: map[string]string{
			"postgres": `
				CREATE TABLE IF NOT EXISTS collections (
					key        TEXT PRIMARY KEY,
					data       JSONB NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
			"sqlite": `
				CREATE TABLE IF NOT EXISTS collections (
					key        TEXT PRIMARY KEY,
					data       TEXT NOT NULL,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
		},
	},
}

func (db *DB) RunMigrations() error {
	logger := slog.With("component", "migrations", "driver", db.Driver)
	logger.Info("Starting database migrations")

	if err := db.createMigrationsTable(); err != nil {
		logger.Error("Failed to create migrations table", "error", err)
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := db.migrationApplied(m.version)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.version, err)
		}
		if applied {
			logger.Debug("Migration already applied", "version", m.version)
			continue
		}

		stmt, ok := m.sql[db.Driver]
		if !ok {
			return fmt.Errorf("migration %s has no statement for driver %s", m.version, db.Driver)
		}

		if _, err := db.Exec(stmt); err != nil {
			logger.Error("Failed to run migration", "version", m.version, "error", err)
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}

		if err := db.recordMigration(m.version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.version, err)
		}

		logger.Info("Migration applied", "version", m.version)
	}

	logger.Info("All migrations completed successfully")
	return nil
}

func (db *DB) createMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := db.Exec(query)
	return err
}

func (db *DB) migrationApplied(version string) (bool, error) {
	var count int
	err := db.QueryRow(db.Rebind(`SELECT COUNT(*) FROM schema_migrations WHERE version = $1`), version).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (db *DB) recordMigration(version string) error {
	_, err := db.Exec(db.Rebind(`INSERT INTO schema_migrations (version) VALUES ($1)`), version)
	return err
}

// Rebind rewrites $n placeholders to ? for drivers that need it.
func (db *DB) Rebind(query string) string {
	if db.Driver == "postgres" {
		return query
	}
	out := make([]byte, 0, len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			out = append(out, '?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
