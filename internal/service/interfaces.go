// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/model"
)

// DocumentFilter defines filtering options for document queries. Zero
// values mean "no filter".
type DocumentFilter struct {
	ClientID string
	Source   string
}

// ImportStats summarizes one import batch.
type ImportStats struct {
	Total    int
	Imported int
	Skipped  int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Document operations
	SaveDocuments(ctx context.Context, docs []model.Document) (*ImportStats, error)
	DocumentCount(ctx context.Context, filter DocumentFilter) (int, error)
	ForEachDocument(ctx context.Context, filter DocumentFilter, fn func(model.Document) error) error

	// Scan run history
	SaveScanRun(ctx context.Context, run *model.ScanRun) error
	ListScanRuns(ctx context.Context, limit int) ([]model.ScanRun, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportMeta describes the provenance of a coverage result.
type ReportMeta struct {
	GeneratedAt time.Time
	Source      string
	Duration    time.Duration
}

// ReportWriter exports a coverage result to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, result coverage.Result, meta ReportMeta) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
