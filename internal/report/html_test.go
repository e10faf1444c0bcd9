package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
	"github.com/dukbill/tally/internal/taxonomy"
)

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := RenderHTML(&buf, sampleResult(t), sampleMeta())
	require.NoError(t, err)
	assert.Positive(t, buf.Len())

	out := buf.String()

	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Category Coverage")
	assert.Contains(t, out, "Payslips")
	assert.Contains(t, out, "Bank Statements")
}

func TestRenderHTML_EmptyRegistry(t *testing.T) {
	t.Parallel()

	reg, err := taxonomy.New(nil)
	require.NoError(t, err)

	var buf bytes.Buffer

	err = RenderHTML(&buf, coverage.Report(coverage.NewAccumulator(reg)), service.ReportMeta{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Category Coverage")
}

func TestHTMLSubtitle(t *testing.T) {
	t.Parallel()

	line := htmlSubtitle(sampleResult(t), sampleMeta())

	assert.Contains(t, line, "2 of 3 categories in use")
	assert.Contains(t, line, "1 unknown labels")
	assert.Contains(t, line, "taxonomy test-1")
}
