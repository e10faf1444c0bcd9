package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dukbill/tally/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command ensures your local database has all the required
tables and indexes for the application to function properly.`,
		RunE: runMigrate,
	}

	// Flags
	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")

	// SchemaVersion is not part of the service interface, so open the
	// concrete SQLite store directly.
	dbPath := databasePath()
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()

	if status {
		version, versionErr := store.SchemaVersion(ctx)
		if versionErr != nil {
			return fmt.Errorf("failed to read schema version: %w", versionErr)
		}

		slog.Info("📊 Database Migration Status")
		slog.Info("Database", "path", dbPath)
		slog.Info("Schema version",
			"current", version,
			"latest", storage.ExpectedSchemaVersion)

		if version < storage.ExpectedSchemaVersion {
			slog.Warn("Database is behind, run 'tally migrate' to update")
		} else {
			slog.Info("✅ Database is up to date")
		}
		return nil
	}

	slog.Info("🗄️  Running database migrations...")
	slog.Info("Database", "path", dbPath)

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("✅ Database migrations completed successfully!")

	return nil
}
