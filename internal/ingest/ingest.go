// Package ingest reads classification export files produced by the
// document processing pipeline. Exports arrive as JSONL or CSV; rows
// that cannot be parsed are skipped with a warning rather than failing
// the whole file.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukbill/tally/internal/model"
)

// Format identifies an export file format.
type Format string

// Supported export formats.
const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// ErrUnknownFormat indicates a file whose format cannot be determined.
var ErrUnknownFormat = errors.New("unknown export format")

// Stats counts the outcome of reading one export stream.
type Stats struct {
	Records int
	Skipped int
}

// DetectFormat determines the export format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Reader parses classification export streams.
type Reader struct{}

// NewReader creates a new export reader.
func NewReader() *Reader {
	return &Reader{}
}

// EachFile streams the documents in path to fn, dispatching on the
// file extension. fn errors abort the stream and are returned as-is.
func (r *Reader) EachFile(ctx context.Context, path string, fn func(model.Document) error) (Stats, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Stats{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatCSV:
		return r.EachCSV(ctx, f, fn)
	default:
		return r.EachJSONL(ctx, f, fn)
	}
}

// ReadFile reads every document in path into memory. Prefer EachFile
// for large exports.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]model.Document, Stats, error) {
	var docs []model.Document
	stats, err := r.EachFile(ctx, path, func(doc model.Document) error {
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return docs, stats, nil
}

// exportRecord is the wire shape of one classified document row.
type exportRecord struct {
	ClassifiedAt  *time.Time `json:"classified_at"`
	CategoryLabel *string    `json:"category_label"`
	DocumentID    string     `json:"document_id"`
	ClientID      string     `json:"client_id"`
	Source        string     `json:"source"`
}

// toDocument converts a parsed record, reporting whether its identity
// fields are usable.
func (rec *exportRecord) toDocument() (model.Document, bool) {
	if rec.DocumentID == "" || rec.ClientID == "" {
		return model.Document{}, false
	}

	doc := model.Document{
		ID:            rec.DocumentID,
		ClientID:      rec.ClientID,
		Source:        rec.Source,
		CategoryLabel: rec.CategoryLabel,
	}
	if rec.ClassifiedAt != nil {
		doc.ClassifiedAt = rec.ClassifiedAt.UTC()
	}
	doc.Hash = doc.GenerateHash()

	return doc, true
}

// parseTimestamp accepts the timestamp shapes pipeline exports use.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}

	ts, err := time.Parse(time.DateOnly, s)
	if err == nil {
		return ts, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
