package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dukbill/tally/internal/model"
)

// CSV exports must carry at least these columns.
var requiredColumns = []string{"document_id", "client_id"}

// EachCSV streams the documents in a CSV export to fn. The first row
// must be a header naming the columns; unrecognized columns are
// ignored. Malformed rows are skipped with a warning.
func (r *Reader) EachCSV(ctx context.Context, rd io.Reader, fn func(model.Document) error) (Stats, error) {
	var stats Stats

	reader := csv.NewReader(rd)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("export file has no header row")
		}
		return stats, fmt.Errorf("failed to read export header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return stats, err
	}

	lineNo := 1
	for {
		lineNo++

		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}

		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				slog.Warn("Skipping malformed export row",
					"line", lineNo,
					"error", readErr)
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("failed to read export row: %w", readErr)
		}

		rec, ok := rowToRecord(row, columns, lineNo)
		if !ok {
			stats.Skipped++
			continue
		}

		doc, ok := rec.toDocument()
		if !ok {
			slog.Warn("Skipping export row without document identity",
				"line", lineNo)
			stats.Skipped++
			continue
		}

		if err := fn(doc); err != nil {
			return stats, err
		}
		stats.Records++
	}

	return stats, nil
}

// mapColumns resolves header names to column positions.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("export header is missing required column %q", required)
		}
	}
	return columns, nil
}

// rowToRecord builds an export record from one CSV row.
func rowToRecord(row []string, columns map[string]int, lineNo int) (*exportRecord, bool) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rec := &exportRecord{
		DocumentID: field("document_id"),
		ClientID:   field("client_id"),
		Source:     field("source"),
	}

	// An empty cell means the pipeline assigned no label; the NA
	// sentinel arrives as a literal "NA" cell.
	if label := field("category_label"); label != "" {
		rec.CategoryLabel = &label
	}

	if raw := field("classified_at"); raw != "" {
		ts, err := parseTimestamp(raw)
		if err != nil {
			slog.Warn("Skipping export row with bad timestamp",
				"line", lineNo,
				"error", err)
			return nil, false
		}
		rec.ClassifiedAt = &ts
	}

	return rec, true
}
