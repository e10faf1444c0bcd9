package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
	"github.com/dukbill/tally/internal/taxonomy"
)

// sampleResult tallies a small mixed batch: two used categories, one
// unused, one unknown label, one unclassified, one not-applicable.
func sampleResult(t *testing.T) coverage.Result {
	t.Helper()

	reg, err := taxonomy.NewWithOptions(
		[]string{"Payslips", "Bank Statements", "Driver's Licence"},
		taxonomy.Options{Version: "test-1"},
	)
	require.NoError(t, err)

	acc := coverage.NewAccumulator(reg)

	addLabel := func(label string, n int) {
		for i := 0; i < n; i++ {
			acc.Add(&label)
		}
	}
	addLabel("Payslips", 3)
	addLabel("Bank Statements", 1)
	addLabel("Rent Receipts", 2)
	addLabel("NA", 1)
	acc.Add(nil)

	return coverage.Report(acc)
}

func sampleMeta() service.ReportMeta {
	return service.ReportMeta{
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Source:      "exports/march.jsonl",
		Duration:    1500 * time.Millisecond,
	}
}

func TestRender_AllFormats(t *testing.T) {
	t.Parallel()

	result := sampleResult(t)
	meta := sampleMeta()

	for _, format := range Formats() {
		var buf bytes.Buffer

		err := Render(&buf, format, result, meta)
		require.NoError(t, err, "format %s", format)
		assert.Positive(t, buf.Len(), "format %s produced no output", format)
	}
}

func TestRender_EmptyFormatDefaultsToTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Render(&buf, "", sampleResult(t), sampleMeta())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Category Coverage")
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Render(&buf, "xml", sampleResult(t), sampleMeta())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "xml")
	assert.Zero(t, buf.Len())
}

func TestCategoriesByCount(t *testing.T) {
	t.Parallel()

	result := sampleResult(t)

	assert.Equal(t, []string{"Payslips", "Bank Statements", "Driver's Licence"}, categoriesByCount(result))
}

func TestCategoriesByName(t *testing.T) {
	t.Parallel()

	result := sampleResult(t)

	assert.Equal(t, []string{"Bank Statements", "Driver's Licence", "Payslips"}, categoriesByName(result))
}

func TestUnknownsByCount(t *testing.T) {
	t.Parallel()

	reg, err := taxonomy.New([]string{"Payslips"})
	require.NoError(t, err)

	acc := coverage.NewAccumulator(reg)
	addLabel := func(label string, n int) {
		for i := 0; i < n; i++ {
			acc.Add(&label)
		}
	}
	addLabel("Zeta", 1)
	addLabel("Alpha", 1)
	addLabel("Busy", 5)

	result := coverage.Report(acc)

	assert.Equal(t, []string{"Busy", "Alpha", "Zeta"}, unknownsByCount(result))
}

func TestMetaSummary(t *testing.T) {
	t.Parallel()

	result := sampleResult(t)

	line := metaSummary(result, sampleMeta())
	assert.Contains(t, line, "taxonomy test-1")
	assert.Contains(t, line, "exports/march.jsonl")
	assert.Contains(t, line, "2026-03-14T09:30:00Z")
	assert.Contains(t, line, "1.5s")

	assert.Equal(t, "taxonomy test-1", metaSummary(result, service.ReportMeta{}))
}
