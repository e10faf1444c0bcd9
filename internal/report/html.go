package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
)

const (
	chartWidth    = "1400px"
	chartHeight   = "640px"
	xAxisRotate   = 60
	labelFontSize = 10
	barColor      = "#f4a259"
)

// RenderHTML writes a standalone HTML page charting the per-category
// tally. Unused categories render as zero-height bars so taxonomy gaps
// stay visible next to the busy categories.
func RenderHTML(w io.Writer, result coverage.Result, meta service.ReportMeta) error {
	bar := buildCoverageChart(result, meta)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("rendering coverage chart: %w", err)
	}

	return nil
}

func buildCoverageChart(result coverage.Result, meta service.ReportMeta) *charts.Bar {
	names := categoriesByCount(result)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Category Coverage",
			Subtitle: htmlSubtitle(result, meta),
			Left:     "center",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{Bottom: "22%", ContainLabel: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0", FontSize: labelFontSize},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Documents"}),
	)

	if len(names) == 0 {
		return bar
	}

	data := make([]opts.BarData, len(names))
	for i, name := range names {
		data[i] = opts.BarData{Value: result.Counts[name]}
	}

	bar.SetXAxis(names)
	bar.AddSeries("Documents", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}))

	return bar
}

func htmlSubtitle(result coverage.Result, meta service.ReportMeta) string {
	line := fmt.Sprintf("%d of %d categories in use, %d unknown labels",
		len(result.Used), len(result.Used)+len(result.Unused), len(result.UnknownLabels))

	if summary := metaSummary(result, meta); summary != "" {
		line += " | " + summary
	}

	return line
}
