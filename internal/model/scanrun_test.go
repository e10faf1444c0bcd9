package model

import (
	"testing"
	"time"
)

func TestScanRun_Validate(t *testing.T) {
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		run     ScanRun
		wantErr bool
	}{
		{
			name: "valid run",
			run: ScanRun{
				StartedAt:       started,
				FinishedAt:      started.Add(2 * time.Second),
				TaxonomyVersion: "builtin-2025.2",
				TotalRecords:    100,
				UsedCategories:  10,
				UnusedCategories: 26,
			},
		},
		{
			name: "zero-record run is valid",
			run: ScanRun{
				StartedAt:  started,
				FinishedAt: started,
			},
		},
		{
			name:    "missing start time",
			run:     ScanRun{FinishedAt: started},
			wantErr: true,
		},
		{
			name: "finish before start",
			run: ScanRun{
				StartedAt:  started,
				FinishedAt: started.Add(-time.Second),
			},
			wantErr: true,
		},
		{
			name: "negative totals",
			run: ScanRun{
				StartedAt:    started,
				FinishedAt:   started,
				TotalRecords: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScanRun_Duration(t *testing.T) {
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	run := ScanRun{
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	}

	if got := run.Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", got)
	}
}
