package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
	"github.com/dukbill/tally/internal/taxonomy"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := RenderTable(&buf, sampleResult(t), sampleMeta())
	require.NoError(t, err)

	out := buf.String()

	assert.Contains(t, out, "Category Coverage")
	assert.Contains(t, out, "Payslips")
	assert.Contains(t, out, "Bank Statements")
	assert.Contains(t, out, "Driver's Licence")
	assert.Contains(t, out, "Records scanned:   8")
	assert.Contains(t, out, "Categories in use: 2 of 3")
	assert.Contains(t, out, "Rent Receipts")
	assert.Contains(t, out, "missing from the taxonomy")
}

func TestRenderTable_OrdersByCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := RenderTable(&buf, sampleResult(t), sampleMeta())
	require.NoError(t, err)

	out := buf.String()

	payslips := strings.Index(out, "Payslips")
	bank := strings.Index(out, "Bank Statements")
	licence := strings.Index(out, "Driver's Licence")

	require.NotEqual(t, -1, payslips)
	require.NotEqual(t, -1, bank)
	require.NotEqual(t, -1, licence)
	assert.Less(t, payslips, bank, "busiest category should render first")
	assert.Less(t, bank, licence, "unused category should render last")
}

func TestRenderTable_NoUnknownLabels(t *testing.T) {
	t.Parallel()

	reg, err := taxonomy.New([]string{"Payslips"})
	require.NoError(t, err)

	acc := coverage.NewAccumulator(reg)
	label := "Payslips"
	acc.Add(&label)

	var buf bytes.Buffer

	err = RenderTable(&buf, coverage.Report(acc), service.ReportMeta{})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "missing from the taxonomy")
}

func TestRenderTable_EmptyRegistry(t *testing.T) {
	t.Parallel()

	reg, err := taxonomy.New(nil)
	require.NoError(t, err)

	var buf bytes.Buffer

	err = RenderTable(&buf, coverage.Report(coverage.NewAccumulator(reg)), service.ReportMeta{})
	require.NoError(t, err)

	out := buf.String()

	assert.Contains(t, out, "Records scanned:   0")
	assert.Contains(t, out, "0 of 0 (0.0%)")
}

func TestShareOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", shareOf(3, 0))
	assert.Equal(t, "37.5%", shareOf(3, 8))
	assert.Equal(t, "0.0%", shareOf(0, 8))
	assert.Equal(t, "100.0%", shareOf(8, 8))
}
