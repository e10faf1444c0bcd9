package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukbill/tally/internal/cli"
	"github.com/dukbill/tally/internal/common"
	"github.com/dukbill/tally/internal/config"
	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/ingest"
	"github.com/dukbill/tally/internal/model"
	"github.com/dukbill/tally/internal/report"
	"github.com/dukbill/tally/internal/service"
	"github.com/dukbill/tally/internal/sheets"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [files...]",
		Short: "Scan classified documents and report category coverage",
		Long: `Tally classified documents against the broker category taxonomy and
report which categories are in use, which sit unused, and which labels
the taxonomy does not recognize.

With no arguments the scan runs over the imported documents in the
local database. With file arguments it scans the export files directly
without touching the database.

Examples:
  # Scan everything imported so far
  tally scan

  # Scan one client's documents as JSON
  tally scan --client acme-123 --format json

  # Scan export files directly and render an HTML chart
  tally scan --format html --output coverage.html ~/exports/*.jsonl

  # Record the scan for drift tracking and push it to Google Sheets
  tally scan --save-run --export-sheets`,
		RunE: runScan,
	}

	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, csv, html)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("taxonomy", "", "Taxonomy YAML file (default: built-in broker taxonomy)")
	cmd.Flags().Int("workers", 0, "Number of scan workers (default: number of CPUs)")
	cmd.Flags().String("client", "", "Only scan documents for this client ID")
	cmd.Flags().String("source", "", "Only scan documents from this ingestion source (EMAIL, UPLOAD, API)")
	cmd.Flags().Bool("save-run", false, "Record this scan in the run history")
	cmd.Flags().Bool("export-sheets", false, "Export the report to Google Sheets")

	// Bind to viper
	_ = viper.BindPFlag("scan.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("scan.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("scan.taxonomy", cmd.Flags().Lookup("taxonomy"))
	_ = viper.BindPFlag("scan.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("scan.client", cmd.Flags().Lookup("client"))
	_ = viper.BindPFlag("scan.source", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("scan.save_run", cmd.Flags().Lookup("save-run"))
	_ = viper.BindPFlag("scan.export_sheets", cmd.Flags().Lookup("export-sheets"))

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	reg, err := loadRegistry(viper.GetString("scan.taxonomy"))
	if err != nil {
		return err
	}

	filter := service.DocumentFilter{
		ClientID: viper.GetString("scan.client"),
		Source:   viper.GetString("scan.source"),
	}

	var files []string
	if len(args) > 0 {
		files, err = expandFileArgs(args)
		if err != nil {
			return err
		}
	}

	slog.Info(cli.FormatTitle("Scanning document categories"),
		"taxonomy_version", reg.Version(),
		"categories", reg.Len())

	started := time.Now()

	records := make(chan coverage.Record, 256)
	errCh := make(chan error, 1)

	var store service.Storage
	var bar *progressbar.ProgressBar

	if len(files) == 0 {
		store, err = initStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer func() { _ = store.Close() }()

		total, countErr := store.DocumentCount(ctx, filter)
		if countErr != nil {
			return fmt.Errorf("failed to count documents: %w", countErr)
		}
		if total == 0 {
			slog.Info("No documents matched, reporting empty coverage")
		}

		bar = newScanProgressBar(total)
		go streamFromDatabase(ctx, store, filter, records, errCh)
	} else {
		bar = newScanProgressBar(-1)
		go streamFromFiles(ctx, files, filter, records, errCh)
	}

	acc, scanErr := coverage.Scan(ctx, reg, records, coverage.ScanOptions{
		Workers: viper.GetInt("scan.workers"),
		Progress: func(processed int) {
			_ = bar.Set(processed)
		},
	})
	if scanErr != nil {
		if !errors.Is(scanErr, context.Canceled) {
			return scanErr
		}
		// An interrupted scan still holds a valid tally of everything
		// processed so far.
		slog.Warn("Scan interrupted, reporting partial results",
			"records_tallied", acc.Total())
	}

	if prodErr := <-errCh; prodErr != nil && !errors.Is(prodErr, context.Canceled) {
		return fmt.Errorf("scan aborted: %w", prodErr)
	}

	_ = bar.Finish()

	finished := time.Now()
	result := coverage.Report(acc)
	meta := service.ReportMeta{
		GeneratedAt: finished,
		Source:      scanSource(files),
		Duration:    finished.Sub(started),
	}

	if viper.GetBool("scan.save_run") && scanErr == nil {
		if saveErr := saveScanRun(ctx, store, result, started, finished, meta.Source); saveErr != nil {
			slog.Warn("Failed to record scan run", "error", saveErr)
		}
	}

	if err := renderReport(result, meta); err != nil {
		return err
	}

	if viper.GetBool("scan.export_sheets") {
		if err := exportToSheets(ctx, result, meta); err != nil {
			return common.NewUserError("Google Sheets export failed", err)
		}
	}

	return scanErr
}

// streamFromDatabase feeds imported documents into the scan pipeline.
// It always closes records and sends exactly one result on errCh.
func streamFromDatabase(ctx context.Context, store service.Storage, filter service.DocumentFilter, records chan<- coverage.Record, errCh chan<- error) {
	defer close(records)

	errCh <- store.ForEachDocument(ctx, filter, func(doc model.Document) error {
		select {
		case records <- coverage.Record{Label: doc.CategoryLabel}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// streamFromFiles feeds export file rows into the scan pipeline,
// applying the document filter locally. It always closes records and
// sends exactly one result on errCh.
func streamFromFiles(ctx context.Context, files []string, filter service.DocumentFilter, records chan<- coverage.Record, errCh chan<- error) {
	defer close(records)

	reader := ingest.NewReader()
	for _, path := range files {
		_, err := reader.EachFile(ctx, path, func(doc model.Document) error {
			if !matchesFilter(doc, filter) {
				return nil
			}
			select {
			case records <- coverage.Record{Label: doc.CategoryLabel}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errCh <- fmt.Errorf("failed to scan %s: %w", path, err)
			return
		}
	}

	errCh <- nil
}

// matchesFilter reports whether doc passes the scan filter. Empty
// filter fields match everything.
func matchesFilter(doc model.Document, filter service.DocumentFilter) bool {
	if filter.ClientID != "" && doc.ClientID != filter.ClientID {
		return false
	}
	if filter.Source != "" && doc.Source != filter.Source {
		return false
	}
	return true
}

// buildScanRun summarizes a coverage result for the run history.
func buildScanRun(result coverage.Result, started, finished time.Time, source string) *model.ScanRun {
	return &model.ScanRun{
		StartedAt:        started,
		FinishedAt:       finished,
		TaxonomyVersion:  result.TaxonomyVersion,
		Source:           source,
		TotalRecords:     result.TotalRecords,
		UsedCategories:   len(result.Used),
		UnusedCategories: len(result.Unused),
		UnknownLabels:    len(result.UnknownLabels),
		Unclassified:     result.Unclassified,
		NotApplicable:    result.NotApplicable,
	}
}

// saveScanRun records the scan in the run history, opening storage if
// the scan itself ran from files.
func saveScanRun(ctx context.Context, store service.Storage, result coverage.Result, started, finished time.Time, source string) error {
	if store == nil {
		var err error
		store, err = initStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	run := buildScanRun(result, started, finished, source)
	if err := store.SaveScanRun(ctx, run); err != nil {
		return err
	}

	slog.Info("Recorded scan run", "id", run.ID)
	return nil
}

// renderReport writes the formatted report to stdout or the configured
// output file.
func renderReport(result coverage.Result, meta service.ReportMeta) error {
	format := viper.GetString("scan.format")

	path := viper.GetString("scan.output")
	if path == "" {
		return report.Render(os.Stdout, format, result, meta)
	}

	f, err := os.Create(path) // #nosec G304 -- user-supplied output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := report.Render(f, format, result, meta); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	slog.Info(cli.FormatSuccess("Report written"), "path", path, "format", format)
	return nil
}

// exportToSheets pushes the report to the configured Google Sheets
// spreadsheet.
func exportToSheets(ctx context.Context, result coverage.Result, meta service.ReportMeta) error {
	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("failed to load sheets config: %w", err)
	}

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	return writer.Write(ctx, result, meta)
}

// newScanProgressBar builds the scan progress bar. A negative total
// renders a spinner for streams of unknown length. The bar writes to
// stderr so piped report output stays clean.
func newScanProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Scanning documents...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
