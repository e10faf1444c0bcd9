package model

import (
	"fmt"
	"time"
)

// ScanRun is the persisted summary of one coverage scan, kept so
// operators can watch category usage drift between pipeline exports.
type ScanRun struct {
	StartedAt        time.Time
	FinishedAt       time.Time
	TaxonomyVersion  string
	Source           string
	ID               int64
	TotalRecords     int
	UsedCategories   int
	UnusedCategories int
	UnknownLabels    int
	Unclassified     int
	NotApplicable    int
}

// Duration returns the wall-clock time the scan took.
func (s *ScanRun) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Validate ensures the scan run is internally consistent before it is
// persisted.
func (s *ScanRun) Validate() error {
	if s.StartedAt.IsZero() {
		return fmt.Errorf("scan run start time is required")
	}
	if s.FinishedAt.Before(s.StartedAt) {
		return fmt.Errorf("scan run cannot finish before it starts")
	}
	if s.TotalRecords < 0 {
		return fmt.Errorf("total records cannot be negative, got %d", s.TotalRecords)
	}
	if s.UsedCategories < 0 || s.UnusedCategories < 0 {
		return fmt.Errorf("category counts cannot be negative")
	}
	return nil
}
