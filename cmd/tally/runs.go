package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukbill/tally/internal/cli"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect scan run history",
		Long:  `Show past coverage scans so category usage drift is visible between exports.`,
	}

	cmd.AddCommand(listRunsCmd())

	return cmd
}

func listRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent scan runs",
		RunE:  runListRuns,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show (0 for all)")
	_ = viper.BindPFlag("runs.limit", cmd.Flags().Lookup("limit"))

	return cmd
}

func runListRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListScanRuns(ctx, viper.GetInt("runs.limit"))
	if err != nil {
		return fmt.Errorf("failed to list scan runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println(cli.InfoStyle.Render("No scan runs recorded. Use 'tally scan --save-run' to record one."))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Scan history (%d runs)", len(runs))))

	// Create table writer
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	// Header
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	columns := []string{"ID", "Started", "Duration", "Source", "Taxonomy", "Records", "Used", "Unused", "Unknown"}
	for i, col := range columns {
		columns[i] = headerStyle.Render(col)
	}
	fmt.Fprintln(w, strings.Join(columns, "\t"))

	for _, run := range runs {
		taxonomyVersion := run.TaxonomyVersion
		if taxonomyVersion == "" {
			taxonomyVersion = "-"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			humanize.Time(run.StartedAt),
			run.Duration().Round(time.Millisecond),
			run.Source,
			taxonomyVersion,
			humanize.Comma(int64(run.TotalRecords)),
			run.UsedCategories,
			run.UnusedCategories,
			run.UnknownLabels)
	}

	return nil
}
