package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version this binary requires.
// Migrate refuses to leave the database at anything else.
const ExpectedSchemaVersion = 3

// Migration is one schema step, applied inside its own transaction.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial document schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS documents (
					id TEXT NOT NULL,
					hash TEXT UNIQUE NOT NULL,
					client_id TEXT NOT NULL,
					source TEXT,
					category_label TEXT,
					classified_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_documents_client ON documents(client_id)`,
				`CREATE INDEX idx_documents_label ON documents(category_label)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add scan run history for drift auditing",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS scan_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					started_at DATETIME NOT NULL,
					finished_at DATETIME NOT NULL,
					taxonomy_version TEXT,
					source TEXT,
					total_records INTEGER NOT NULL DEFAULT 0,
					used_categories INTEGER NOT NULL DEFAULT 0,
					unused_categories INTEGER NOT NULL DEFAULT 0,
					unknown_labels INTEGER NOT NULL DEFAULT 0,
					unclassified INTEGER NOT NULL DEFAULT 0,
					not_applicable INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_scan_runs_started ON scan_runs(started_at)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Index classified_at for ordered document streaming",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_documents_classified ON documents(classified_at)`)
			return err
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies pending migrations and verifies the database ends up
// at ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}

// applyMigration runs one migration and its version bump in a single
// transaction.
func (s *SQLiteStorage) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := m.Up(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d failed: %w", m.Version, err)
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}

	slog.Info("Applied migration",
		"version", m.Version,
		"description", m.Description)
	return nil
}

// SchemaVersion reports the database's current PRAGMA user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.schemaVersion(ctx)
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
