package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukbill/tally/internal/cli"
	"github.com/dukbill/tally/internal/common"
	"github.com/dukbill/tally/internal/ingest"
	"github.com/dukbill/tally/internal/model"
	"github.com/dukbill/tally/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import classified document exports into the local database",
		Long: `Import classified document exports produced by the processing pipeline.

Exports are JSONL or CSV files with one classified document per row.
Documents are deduplicated automatically, so re-importing an export is
safe.

Examples:
  # Import a single export
  tally import ~/exports/march.jsonl

  # Import every export in a directory
  tally import ~/exports/*.jsonl

  # Preview without saving
  tally import --dry-run ~/exports/march.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse files without saving to the database")
	cmd.Flags().Int("batch-size", 500, "Number of documents to save per database batch")

	// Bind to viper
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("import.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := expandFileArgs(args)
	if err != nil {
		return err
	}

	dryRun := viper.GetBool("import.dry_run")

	slog.Info(cli.FormatTitle("Importing document exports"))
	slog.Info("Reading export files", "file_count", len(files), "dry_run", dryRun)

	// Parse all files up front so a bad file surfaces before anything
	// is written.
	var docs []model.Document
	var skipped int
	fileCounts := make(map[string]int)

	reader := ingest.NewReader()
	for _, path := range files {
		fileDocs, stats, readErr := reader.ReadFile(ctx, path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", path, readErr)
		}

		docs = append(docs, fileDocs...)
		skipped += stats.Skipped
		fileCounts[filepath.Base(path)] = stats.Records

		slog.Info("Processed file",
			"file", filepath.Base(path),
			"records", stats.Records,
			"skipped", stats.Skipped)
	}

	if len(docs) == 0 {
		return common.NewUserError(
			fmt.Sprintf("%d files parsed but none contained records", len(files)),
			common.ErrNoDocuments)
	}

	if dryRun {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		displayImportSummary(files, fileCounts, &service.ImportStats{Total: len(docs)}, skipped, true)
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	batchSize := viper.GetInt("import.batch_size")
	if batchSize <= 0 {
		batchSize = 500
	}

	slog.Info("💾 Saving documents to database...", "batch_size", batchSize)

	total := &service.ImportStats{}
	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))

		stats, saveErr := store.SaveDocuments(ctx, docs[start:end])
		if saveErr != nil {
			return fmt.Errorf("failed to save documents: %w", saveErr)
		}

		total.Total += stats.Total
		total.Imported += stats.Imported
		total.Skipped += stats.Skipped
	}

	slog.Info(cli.FormatSuccess("Import complete!"))
	displayImportSummary(files, fileCounts, total, skipped, false)

	return nil
}

func displayImportSummary(files []string, fileCounts map[string]int, stats *service.ImportStats, skippedLines int, dryRun bool) {
	content := fmt.Sprintf("Files processed: %d\n", len(files))
	content += fmt.Sprintf("Records parsed: %s\n", humanize.Comma(int64(stats.Total)))
	if !dryRun {
		content += fmt.Sprintf("Imported: %s\n", humanize.Comma(int64(stats.Imported)))
		content += fmt.Sprintf("Duplicates: %s\n", humanize.Comma(int64(stats.Skipped)))
	}
	content += fmt.Sprintf("Unparseable lines: %s\n", humanize.Comma(int64(skippedLines)))

	content += "\nPer file:\n"
	for _, path := range files {
		name := filepath.Base(path)
		content += fmt.Sprintf("  - %s: %d records\n", name, fileCounts[name])
	}

	fmt.Println(cli.RenderBox("Import Summary", content))
}
