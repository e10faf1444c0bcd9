package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dukbill/tally/internal/common"
	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
)

// Writer pushes coverage snapshots to a Google spreadsheet. It
// implements service.ReportWriter.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter validates the config, authenticates against the Sheets
// API, and returns a ready writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := newSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write replaces the sheet contents with the latest coverage snapshot.
// Value writes retry with backoff; formatting failures are logged but
// never fail the export.
func (w *Writer) Write(ctx context.Context, result coverage.Result, meta service.ReportMeta) error {
	w.logger.Info("starting coverage export",
		"records", result.TotalRecords,
		"categories", len(result.Counts),
		"unknown_labels", len(result.UnknownLabels))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if err := w.clearSheet(ctx, spreadsheetID); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := w.prepareReportData(result, meta)

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, w.retryOptions())
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, len(values))
		}, w.retryOptions())
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("coverage export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

func (w *Writer) retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

func newSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// tokenSource builds credentials from whichever auth method the config
// carries: a service account key file or an OAuth2 refresh token.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.HasServiceAccount() {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwtConfig.TokenSource(ctx), nil
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
	return oauthConfig.TokenSource(ctx, token), nil
}

// getOrCreateSpreadsheet resolves the configured spreadsheet ID,
// creating a fresh spreadsheet named after the config when none is
// set.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		if _, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Coverage"}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet wipes the previous snapshot so rows from a longer report
// never survive a shorter one.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareReportData lays out the coverage snapshot: a title row, the
// summary block, the per-category breakdown, and the unknown labels.
func (w *Writer) prepareReportData(result coverage.Result, meta service.ReportMeta) [][]any {
	registrySize := len(result.Used) + len(result.Unused)

	// Title(2) + summary(8) + breakdown header(2) + categories + unknown section(2 + labels)
	estimatedRows := 14 + registrySize + len(result.UnknownLabels)
	values := make([][]any, 0, estimatedRows)

	subtitle := meta.Source
	if !meta.GeneratedAt.IsZero() {
		if subtitle != "" {
			subtitle += " | "
		}
		subtitle += meta.GeneratedAt.UTC().Format("Jan 2, 2006 15:04 MST")
	}

	values = append(values,
		[]any{"Dukbill Category Coverage", subtitle},
		[]any{}, // Empty row
		[]any{"Summary"},
		[]any{"Taxonomy Version", result.TaxonomyVersion},
		[]any{"Records Scanned", result.TotalRecords},
		[]any{"Classified", result.ClassifiedCount()},
		[]any{"Unknown Labels", result.UnknownCount()},
		[]any{"Unclassified", result.Unclassified},
		[]any{"Not Applicable", result.NotApplicable},
		[]any{"Categories In Use", fmt.Sprintf("%d of %d", len(result.Used), registrySize)},
		[]any{}, // Empty row
		[]any{"Category Breakdown"},
		[]any{"Category", "Documents", "Share", "Status"},
	)

	// Sort categories by document count (descending), ties by name
	categories := make([]string, 0, len(result.Counts))
	for category := range result.Counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if result.Counts[categories[i]] != result.Counts[categories[j]] {
			return result.Counts[categories[i]] > result.Counts[categories[j]]
		}
		return categories[i] < categories[j]
	})

	for _, category := range categories {
		n := result.Counts[category]

		status := "used"
		if n == 0 {
			status = "unused"
		}

		share := ""
		if result.TotalRecords > 0 {
			share = fmt.Sprintf("%.1f%%", float64(n)/float64(result.TotalRecords)*100)
		}

		values = append(values, []any{category, n, share, status})
	}

	if len(result.UnknownLabels) > 0 {
		values = append(values,
			[]any{}, // Empty row
			[]any{"Unknown Label Breakdown"},
			[]any{"Label", "Documents"},
		)

		labels := result.SortedUnknown()
		sort.SliceStable(labels, func(i, j int) bool {
			return result.UnknownLabels[labels[i]] > result.UnknownLabels[labels[j]]
		})

		for _, label := range labels {
			values = append(values, []any{label, result.UnknownLabels[label]})
		}
	}

	return values
}

// writeData updates the sheet in BatchSize chunks to stay under the
// API's per-request limits.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for start := 0; start < len(values); start += w.config.BatchSize {
		batch := values[start:min(start+w.config.BatchSize, len(values))]

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("A%d", start+1),
			&sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", start+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", start+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds the title and section headers, formats counts
// with thousands separators, sizes the columns, and freezes the title
// row.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	rows := int64(totalRows)
	requests := []*sheets.Request{
		boldText(grid(0, 1, 0, 2), 16),
		boldText(grid(2, rows, 0, 1), 0),
		numberFormat(grid(2, rows, 1, 2)),
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   4,
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        0,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	return err
}

func grid(startRow, endRow, startCol, endCol int64) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          0,
		StartRowIndex:    startRow,
		EndRowIndex:      endRow,
		StartColumnIndex: startCol,
		EndColumnIndex:   endCol,
	}
}

// boldText builds a repeat-cell request bolding r, optionally at a
// larger font size.
func boldText(r *sheets.GridRange, fontSize int64) *sheets.Request {
	format := &sheets.TextFormat{Bold: true}
	if fontSize > 0 {
		format.FontSize = fontSize
	}
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  r,
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: format}},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

// numberFormat builds a repeat-cell request rendering r with thousands
// separators.
func numberFormat(r *sheets.GridRange) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: r,
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: "#,##0"},
			}},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}
