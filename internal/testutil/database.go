// Package testutil provides test utilities for the tally project.
// It offers in-memory databases with automatic cleanup and builders
// for deterministic document fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/dukbill/tally/internal/model"
	"github.com/dukbill/tally/internal/service"
	"github.com/dukbill/tally/internal/storage"
)

// TestDB wraps an in-memory store with fail-fast helpers.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB opens a migrated in-memory database that closes itself
// when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedDocuments persists docs and fails the test on any error.
func (db *TestDB) SeedDocuments(docs []model.Document) *service.ImportStats {
	db.t.Helper()

	stats, err := db.Storage.SaveDocuments(context.Background(), docs)
	if err != nil {
		db.t.Fatalf("failed to seed documents: %v", err)
	}

	return stats
}

// MustDocumentCount returns the stored document count matching filter,
// failing the test on error.
func (db *TestDB) MustDocumentCount(filter service.DocumentFilter) int {
	db.t.Helper()

	count, err := db.Storage.DocumentCount(context.Background(), filter)
	if err != nil {
		db.t.Fatalf("failed to count documents: %v", err)
	}

	return count
}
