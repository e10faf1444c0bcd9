// Package storage persists documents and scan runs in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukbill/tally/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrEmptySlice      = errors.New("slice cannot be empty")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidScanRun  = errors.New("invalid scan run")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDocuments rejects nil or empty slices and names the index of
// the first invalid document.
func validateDocuments(docs []model.Document) error {
	if docs == nil {
		return fmt.Errorf("%w: documents", ErrNilParameter)
	}
	if len(docs) == 0 {
		return fmt.Errorf("%w: documents", ErrEmptySlice)
	}

	for i, doc := range docs {
		if err := validateDocument(&doc); err != nil {
			return fmt.Errorf("document at index %d: %w", i, err)
		}
	}
	return nil
}

func validateDocument(doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParameter)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// validateScanRun validates a scan run before persistence.
func validateScanRun(run *model.ScanRun) error {
	if run == nil {
		return fmt.Errorf("%w: scan run", ErrNilParameter)
	}
	if err := run.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScanRun, err)
	}
	return nil
}
