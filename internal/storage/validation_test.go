package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dukbill/tally/internal/model"
)

func validDocument() model.Document {
	label := "Payslips"
	return model.Document{
		ID:            "doc-1",
		ClientID:      "client-1",
		Source:        model.SourceUpload,
		Hash:          "hash-1",
		CategoryLabel: &label,
		ClassifiedAt:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidateContext(t *testing.T) {
	if err := validateContext(context.Background()); err != nil {
		t.Errorf("validateContext(Background) = %v, want nil", err)
	}

	var nilCtx context.Context
	if err := validateContext(nilCtx); !errors.Is(err, ErrNilContext) {
		t.Errorf("validateContext(nil) = %v, want ErrNilContext", err)
	}
}

func TestValidateString(t *testing.T) {
	if err := validateString("tally.db", "dbPath"); err != nil {
		t.Errorf("validateString(valid) = %v, want nil", err)
	}

	err := validateString("   ", "dbPath")
	if !errors.Is(err, ErrEmptyString) {
		t.Fatalf("validateString(blank) = %v, want ErrEmptyString", err)
	}
	if !strings.Contains(err.Error(), "dbPath") {
		t.Errorf("error %q should name the parameter", err)
	}
}

func TestValidateDocuments(t *testing.T) {
	doc := validDocument()

	if err := validateDocuments([]model.Document{doc}); err != nil {
		t.Errorf("validateDocuments(valid) = %v, want nil", err)
	}

	if err := validateDocuments(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateDocuments(nil) = %v, want ErrNilParameter", err)
	}

	if err := validateDocuments([]model.Document{}); !errors.Is(err, ErrEmptySlice) {
		t.Errorf("validateDocuments(empty) = %v, want ErrEmptySlice", err)
	}

	bad := validDocument()
	bad.ClientID = ""
	err := validateDocuments([]model.Document{doc, bad})
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("validateDocuments(bad) = %v, want ErrInvalidDocument", err)
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error %q should name the failing index", err)
	}
}

func TestValidateScanRun(t *testing.T) {
	run := &model.ScanRun{
		StartedAt:       time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		FinishedAt:      time.Date(2026, 5, 1, 9, 5, 0, 0, time.UTC),
		TaxonomyVersion: "2026-05",
		Source:          "database",
		TotalRecords:    10,
	}
	if err := validateScanRun(run); err != nil {
		t.Errorf("validateScanRun(valid) = %v, want nil", err)
	}

	if err := validateScanRun(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateScanRun(nil) = %v, want ErrNilParameter", err)
	}

	bad := *run
	bad.FinishedAt = bad.StartedAt.Add(-time.Minute)
	if err := validateScanRun(&bad); !errors.Is(err, ErrInvalidScanRun) {
		t.Errorf("validateScanRun(finished before started) = %v, want ErrInvalidScanRun", err)
	}
}
