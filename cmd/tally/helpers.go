package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dukbill/tally/internal/config"
	"github.com/dukbill/tally/internal/service"
	"github.com/dukbill/tally/internal/storage"
	"github.com/dukbill/tally/internal/taxonomy"
)

// databasePath returns the configured database location, falling back
// to the default under ~/.local/share.
func databasePath() string {
	if p := viper.GetString("database.path"); p != "" {
		return config.ExpandPath(p)
	}
	return config.DefaultDatabasePath()
}

// initStorage opens the document database and brings its schema up to
// date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(databasePath())
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// loadRegistry loads the taxonomy registry, preferring an explicit path
// over the configured one and falling back to the built-in broker
// taxonomy.
func loadRegistry(path string) (*taxonomy.Registry, error) {
	if path == "" {
		path = viper.GetString("taxonomy.path")
	}
	if path == "" {
		return taxonomy.Default(), nil
	}

	reg, err := taxonomy.Load(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	return reg, nil
}

// expandFileArgs expands glob patterns and collects the export files to
// process. Patterns that match nothing are checked as direct paths and
// warned about when absent.
func expandFileArgs(args []string) ([]string, error) {
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return nil, fmt.Errorf("no files found to process")
	}

	return allFiles, nil
}

// scanSource names the origin of a scan for report provenance.
func scanSource(files []string) string {
	switch len(files) {
	case 0:
		return "database"
	case 1:
		return filepath.Base(files[0])
	default:
		return fmt.Sprintf("%d files", len(files))
	}
}
