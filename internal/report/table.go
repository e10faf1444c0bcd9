package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dukbill/tally/internal/cli"
	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
)

// RenderTable writes a styled terminal report: a summary block, the
// per-category tally ordered by volume, and any labels the taxonomy
// does not recognize.
func RenderTable(w io.Writer, result coverage.Result, meta service.ReportMeta) error {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Category Coverage") + "\n")
	if line := metaSummary(result, meta); line != "" {
		b.WriteString(cli.SubtleStyle.Render(line) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(summaryBlock(result))
	b.WriteString("\n\n")

	b.WriteString(categoryTable(result))
	b.WriteString("\n")

	if len(result.UnknownLabels) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.FormatWarning(fmt.Sprintf("%d labels missing from the taxonomy", len(result.UnknownLabels))))
		b.WriteString("\n")
		b.WriteString(unknownTable(result))
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing table report: %w", err)
	}

	return nil
}

func summaryBlock(result coverage.Result) string {
	registrySize := len(result.Used) + len(result.Unused)

	lines := []string{
		"Records scanned:   " + humanize.Comma(int64(result.TotalRecords)),
		"Classified:        " + humanize.Comma(int64(result.ClassifiedCount())),
		fmt.Sprintf("Unknown labels:    %s across %d labels",
			humanize.Comma(int64(result.UnknownCount())), len(result.UnknownLabels)),
		"Unclassified:      " + humanize.Comma(int64(result.Unclassified)),
		"Not applicable:    " + humanize.Comma(int64(result.NotApplicable)),
		fmt.Sprintf("Categories in use: %d of %d (%.1f%%)",
			len(result.Used), registrySize, result.CoverageRatio()*100),
	}

	return strings.Join(lines, "\n")
}

func categoryTable(result coverage.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"Category", "Documents", "Share", "Status"})

	for _, name := range categoriesByCount(result) {
		n := result.Counts[name]

		status := cli.StyleSuccess("used")
		if n == 0 {
			status = cli.SubtleStyle.Render("unused")
		}

		tbl.AppendRow(table.Row{name, humanize.Comma(int64(n)), shareOf(n, result.TotalRecords), status})
	}

	tbl.AppendFooter(table.Row{"Classified", humanize.Comma(int64(result.ClassifiedCount())), "", ""})

	return tbl.Render()
}

func unknownTable(result coverage.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"Label", "Documents"})

	for _, label := range unknownsByCount(result) {
		tbl.AppendRow(table.Row{label, humanize.Comma(int64(result.UnknownLabels[label]))})
	}

	return tbl.Render()
}

func shareOf(n, total int) string {
	if total == 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
