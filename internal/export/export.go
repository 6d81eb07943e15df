// Package export writes the expense log, joined with each category's current
// limit, to external destinations.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"budget/internal/core"
	"budget/internal/report"
)

// Header is the first row of every CSV export.
var Header = []string{"Date", "Category", "Amount", "Description", "Budget Limit"}

// FileLayout names export files budget_export_YYYYMMDD_HHMMSS.csv.
const FileLayout = "budget_export_20060102_150405.csv"

// Exporter writes rows somewhere and returns a reference to the result
// (a file path, a sheet range).
type Exporter interface {
	Export(ctx context.Context, rows []report.ExportRow, at time.Time) (string, error)
}

// FileName returns the export file name for at.
func FileName(at time.Time) string {
	return at.Format(FileLayout)
}

// Record renders one export row as CSV fields.
func Record(r report.ExportRow) []string {
	return []string{r.Date.String(), r.Category, r.Amount.String(), r.Description, r.Limit.String()}
}

// CSVExporter writes a new timestamped CSV file per export.
type CSVExporter struct {
	dir string
}

func NewCSVExporter(dir string) *CSVExporter {
	if dir == "" {
		dir = "."
	}
	return &CSVExporter{dir: dir}
}

// Export writes rows to a file in the exporter's directory and returns its
// path. A second export within the same second replaces the first.
func (x *CSVExporter) Export(ctx context.Context, rows []report.ExportRow, at time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(x.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(x.dir, FileName(at))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, Header)
	for _, r := range rows {
		records = append(records, Record(r))
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

// Target pairs an exporter with a display name.
type Target struct {
	Name     string
	Exporter Exporter
}

// Result is the outcome of one target in a Multi export.
type Result struct {
	Target string
	Ref    string
	Err    error
}

// Multi runs every target in order. The first target is primary: Export
// fails only when it fails. Other targets report their errors in Results.
type Multi struct {
	targets []Target
}

func NewMulti(targets ...Target) *Multi {
	return &Multi{targets: targets}
}

// ErrNoTargets is returned by a Multi with nothing configured.
var ErrNoTargets = errors.New("no export targets configured")

// ExportAll exports to every target and returns one result per target.
func (m *Multi) ExportAll(ctx context.Context, rows []report.ExportRow, at time.Time) ([]Result, error) {
	if len(m.targets) == 0 {
		return nil, ErrNoTargets
	}
	results := make([]Result, 0, len(m.targets))
	for _, t := range m.targets {
		ref, err := t.Exporter.Export(ctx, rows, at)
		results = append(results, Result{Target: t.Name, Ref: ref, Err: err})
	}
	if results[0].Err != nil {
		return results, fmt.Errorf("export to %s: %w", results[0].Target, results[0].Err)
	}
	return results, nil
}

// Export satisfies Exporter by returning the primary target's reference.
func (m *Multi) Export(ctx context.Context, rows []report.ExportRow, at time.Time) (string, error) {
	results, err := m.ExportAll(ctx, rows, at)
	if err != nil {
		return "", err
	}
	return results[0].Ref, nil
}

// Values renders rows as sheet values, header first. Amounts are written as
// two-decimal strings so that spreadsheets parse them as numbers.
func Values(rows []report.ExportRow) [][]any {
	out := make([][]any, 0, len(rows)+1)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	out = append(out, header)
	for _, r := range rows {
		out = append(out, []any{
			r.Date.String(),
			r.Category,
			core.FormatAmount(r.Amount),
			r.Description,
			core.FormatAmount(r.Limit),
		})
	}
	return out
}
