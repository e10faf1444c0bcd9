package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dukbill/tally/internal/model"
)

// maxLineSize caps a single JSONL line at 1 MiB. Export rows are tiny;
// anything larger is a corrupt file.
const maxLineSize = 1 << 20

// EachJSONL streams the documents in a JSONL export to fn. Malformed
// lines are skipped with a warning; fn errors abort the stream.
func (r *Reader) EachJSONL(ctx context.Context, rd io.Reader, fn func(model.Document) error) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec exportRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			slog.Warn("Skipping malformed export line",
				"line", lineNo,
				"error", err)
			stats.Skipped++
			continue
		}

		doc, ok := rec.toDocument()
		if !ok {
			slog.Warn("Skipping export line without document identity",
				"line", lineNo)
			stats.Skipped++
			continue
		}

		if err := fn(doc); err != nil {
			return stats, err
		}
		stats.Records++
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read export stream: %w", err)
	}

	return stats, nil
}
