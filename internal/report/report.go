// Package report renders coverage results as terminal tables, JSON,
// CSV, and standalone HTML charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
)

// ErrUnknownFormat indicates an unsupported report format was requested.
var ErrUnknownFormat = errors.New("unknown report format")

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatHTML  = "html"
)

// Formats lists the supported output formats in display order.
func Formats() []string {
	return []string{FormatTable, FormatJSON, FormatCSV, FormatHTML}
}

// Render writes result to w in the requested format. An empty format
// renders the terminal table.
func Render(w io.Writer, format string, result coverage.Result, meta service.ReportMeta) error {
	switch format {
	case FormatTable, "":
		return RenderTable(w, result, meta)
	case FormatJSON:
		return RenderJSON(w, result, meta)
	case FormatCSV:
		return RenderCSV(w, result)
	case FormatHTML:
		return RenderHTML(w, result, meta)
	default:
		return fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// categoriesByName returns every registry category in lexicographic
// order, zero-count categories included.
func categoriesByName(result coverage.Result) []string {
	names := make([]string, 0, len(result.Counts))
	for name := range result.Counts {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// categoriesByCount returns every registry category ordered by
// descending document count, ties broken by name.
func categoriesByCount(result coverage.Result) []string {
	names := categoriesByName(result)
	sort.SliceStable(names, func(i, j int) bool {
		return result.Counts[names[i]] > result.Counts[names[j]]
	})

	return names
}

// unknownsByCount returns the unknown labels ordered by descending
// count, ties broken by name.
func unknownsByCount(result coverage.Result) []string {
	labels := result.SortedUnknown()
	sort.SliceStable(labels, func(i, j int) bool {
		return result.UnknownLabels[labels[i]] > result.UnknownLabels[labels[j]]
	})

	return labels
}

// metaSummary builds the one-line provenance string shown under report
// titles. Empty meta fields are omitted.
func metaSummary(result coverage.Result, meta service.ReportMeta) string {
	var parts []string

	if result.TaxonomyVersion != "" {
		parts = append(parts, "taxonomy "+result.TaxonomyVersion)
	}
	if meta.Source != "" {
		parts = append(parts, meta.Source)
	}
	if !meta.GeneratedAt.IsZero() {
		parts = append(parts, meta.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if meta.Duration > 0 {
		parts = append(parts, "scanned in "+meta.Duration.Round(time.Millisecond).String())
	}

	return strings.Join(parts, " | ")
}
