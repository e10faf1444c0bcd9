package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukbill/tally/internal/model"
)

// SaveScanRun persists one coverage scan summary and sets run.ID.
func (s *SQLiteStorage) SaveScanRun(ctx context.Context, run *model.ScanRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateScanRun(run); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_runs (
			started_at, finished_at, taxonomy_version, source,
			total_records, used_categories, unused_categories,
			unknown_labels, unclassified, not_applicable
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.TaxonomyVersion,
		run.Source,
		run.TotalRecords,
		run.UsedCategories,
		run.UnusedCategories,
		run.UnknownLabels,
		run.Unclassified,
		run.NotApplicable,
	)
	if err != nil {
		return fmt.Errorf("failed to save scan run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read scan run id: %w", err)
	}
	run.ID = id

	return nil
}

// ListScanRuns returns the most recent scan runs, newest first. A
// limit <= 0 returns all runs.
func (s *SQLiteStorage) ListScanRuns(ctx context.Context, limit int) ([]model.ScanRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, started_at, finished_at, taxonomy_version, source,
			total_records, used_categories, unused_categories,
			unknown_labels, unclassified, not_applicable
		FROM scan_runs
		ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.ScanRun
	for rows.Next() {
		run, scanErr := scanRunRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan runs: %w", err)
	}
	return runs, nil
}

// scanRunRow reads one scan run from the current row.
func scanRunRow(rows *sql.Rows) (model.ScanRun, error) {
	var run model.ScanRun
	var version sql.NullString
	var source sql.NullString

	err := rows.Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&version,
		&source,
		&run.TotalRecords,
		&run.UsedCategories,
		&run.UnusedCategories,
		&run.UnknownLabels,
		&run.Unclassified,
		&run.NotApplicable,
	)
	if err != nil {
		return model.ScanRun{}, fmt.Errorf("failed to scan run row: %w", err)
	}

	if version.Valid {
		run.TaxonomyVersion = version.String
	}
	if source.Valid {
		run.Source = source.String
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()

	return run, nil
}
