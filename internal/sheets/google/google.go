// Package google exports budget data to a Google Sheets worksheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budget/internal/export"
	applog "budget/internal/log"
	"budget/internal/report"
)

// Options configures an Exporter. Credentials are resolved in order:
// CredentialsJSON, CredentialsFile, then GOOGLE_APPLICATION_CREDENTIALS.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Exporter appends export batches to a worksheet, creating it on first use.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
}

var _ export.Exporter = (*Exporter)(nil)

// New creates a Sheets exporter using service account credentials.
func New(ctx context.Context, opts Options, logger *applog.Logger) (*Exporter, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		return nil, errors.New("missing export sheet name")
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentSheets)

	creds, err := credentialsJSON(opts)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(creds),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

func credentialsJSON(opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Export appends a title row, the header and every row to the worksheet and
// returns the updated range.
func (x *Exporter) Export(ctx context.Context, rows []report.ExportRow, at time.Time) (string, error) {
	if x.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if err := x.ensureSheet(ctx); err != nil {
		return "", err
	}

	vr := &gsheet.ValueRange{Values: batchValues(rows, at)}
	rng := quoteSheet(x.sheetName) + "!A1"
	resp, err := x.svc.Spreadsheets.Values.Append(x.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", x.sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	x.logger.InfoContext(ctx, "Exported to Google Sheets",
		applog.FieldOperation, applog.OpExport,
		applog.FieldExportRef, ref,
		applog.FieldRows, len(rows))
	return ref, nil
}

func (x *Exporter) ensureSheet(ctx context.Context) error {
	ss, err := x.svc.Spreadsheets.Get(x.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	if hasSheet(titles, x.sheetName) {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: x.sheetName},
			},
		}},
	}
	if _, err := x.svc.Spreadsheets.BatchUpdate(x.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create sheet %s: %w", x.sheetName, err)
	}
	x.logger.InfoContext(ctx, "Created export sheet", "sheet", x.sheetName)
	return nil
}

// batchValues prefixes the export values with a row naming the export time.
func batchValues(rows []report.ExportRow, at time.Time) [][]any {
	title := []any{"Export " + at.Format("2006-01-02 15:04:05")}
	return append([][]any{title}, export.Values(rows)...)
}

func hasSheet(titles []string, name string) bool {
	for _, t := range titles {
		if strings.EqualFold(strings.TrimSpace(t), name) {
			return true
		}
	}
	return false
}

// quoteSheet wraps a sheet name in single quotes for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
