package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dukbill/tally/internal/coverage"
)

// RenderCSV writes the result as flat label/kind/count rows: one per
// registry category, one per unknown label, then the scan diagnostics.
// The kind column lets a spreadsheet filter without reshaping.
func RenderCSV(w io.Writer, result coverage.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"label", "kind", "count"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, name := range categoriesByName(result) {
		n := result.Counts[name]

		kind := "used"
		if n == 0 {
			kind = "unused"
		}

		if err := cw.Write([]string{name, kind, strconv.Itoa(n)}); err != nil {
			return fmt.Errorf("writing category row: %w", err)
		}
	}

	for _, label := range result.SortedUnknown() {
		if err := cw.Write([]string{label, "unknown", strconv.Itoa(result.UnknownLabels[label])}); err != nil {
			return fmt.Errorf("writing unknown label row: %w", err)
		}
	}

	diagnostics := []struct {
		label string
		count int
	}{
		{"total_records", result.TotalRecords},
		{"unclassified", result.Unclassified},
		{"not_applicable", result.NotApplicable},
	}
	for _, d := range diagnostics {
		if err := cw.Write([]string{d.label, "diagnostic", strconv.Itoa(d.count)}); err != nil {
			return fmt.Errorf("writing diagnostic row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv report: %w", err)
	}

	return nil
}
