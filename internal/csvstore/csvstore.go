// Package csvstore persists the ledger in the two flat CSV tables that make
// up the on-disk compatibility contract: the limits table (with its INCOME
// row) and the append-only expense log.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimitsFile   = "budget_limits.csv"
	DefaultExpensesFile = "expenses.csv"
)

var (
	LimitsHeader   = []string{"Category", "Limit"}
	ExpensesHeader = []string{"Date", "Category", "Amount", "Description"}
)

var _ ledger.Store = (*Store)(nil)

// Store reads and writes the limits and expenses CSV files.
type Store struct {
	limitsPath   string
	expensesPath string
}

// New returns a store over the two given file paths.
func New(limitsPath, expensesPath string) *Store {
	return &Store{limitsPath: limitsPath, expensesPath: expensesPath}
}

// NewInDir uses the default file names inside dir.
func NewInDir(dir string) *Store {
	return New(filepath.Join(dir, DefaultLimitsFile), filepath.Join(dir, DefaultExpensesFile))
}

func (s *Store) LimitsPath() string   { return s.limitsPath }
func (s *Store) ExpensesPath() string { return s.expensesPath }

// Load reads both tables. A missing file is an empty table; a malformed row
// fails the whole load with core.ErrMalformedRecord.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	var (
		snap     ledger.Snapshot
		income   decimal.Decimal
		limits   core.Limits
		expenses []core.Expense
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, limits, err = readLimits(s.limitsPath)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = readExpenses(s.expensesPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return snap, err
	}
	snap.Income = income
	snap.Limits = limits
	snap.Expenses = expenses

	slog.DebugContext(ctx, "CSV tables loaded",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpLoad,
		"limits_file", s.limitsPath,
		"expenses_file", s.expensesPath,
		"categories", limits.Len(),
		"expenses", len(expenses))
	return snap, nil
}

// SaveLimits rewrites the limits table through a temporary file so a failed
// write never truncates the previous table.
func (s *Store) SaveLimits(ctx context.Context, income decimal.Decimal, limits core.Limits) error {
	rows := make([][]string, 0, limits.Len()+2)
	rows = append(rows, LimitsHeader, []string{core.IncomeKey, income.String()})
	for _, e := range limits.Entries() {
		rows = append(rows, []string{e.Category, e.Limit.String()})
	}
	if err := writeFileAtomic(s.limitsPath, rows); err != nil {
		return fmt.Errorf("write limits table: %w", err)
	}
	slog.DebugContext(ctx, "Limits table saved",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldPath, s.limitsPath,
		"categories", limits.Len())
	return nil
}

// AppendExpense adds one row to the expense log, writing the header first
// when the file is new or empty.
func (s *Store) AppendExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := ensureDir(s.expensesPath); err != nil {
		return err
	}
	f, err := os.OpenFile(s.expensesPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open expenses table: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat expenses table: %w", err)
	}
	w := csv.NewWriter(f)
	switch size := info.Size(); {
	case size == 0:
		if err := w.Write(ExpensesHeader); err != nil {
			return fmt.Errorf("write expenses header: %w", err)
		}
	default:
		// Hand-edited files may lack a trailing newline.
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return fmt.Errorf("read expenses table: %w", err)
		}
		if last[0] != '\n' {
			if _, err := f.Write([]byte("\n")); err != nil {
				return fmt.Errorf("write expenses table: %w", err)
			}
		}
	}
	if err := w.Write(expenseRecord(e)); err != nil {
		return fmt.Errorf("write expense: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush expense: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync expenses table: %w", err)
	}
	slog.DebugContext(ctx, "Expense appended",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldPath, s.expensesPath,
		applog.FieldCategory, e.Category)
	return f.Close()
}

func expenseRecord(e core.Expense) []string {
	return []string{e.Date.String(), e.Category, e.Amount.String(), e.Description}
}

func readLimits(path string) (decimal.Decimal, core.Limits, error) {
	var limits core.Limits
	income := decimal.Zero
	err := readTable(path, func(line int, rec []string) error {
		if len(rec) < 2 {
			return malformed(path, line, "expected 2 fields, got %d", len(rec))
		}
		value, err := core.ParseDecimal(rec[1])
		if err != nil {
			return malformed(path, line, "non-numeric limit %q", rec[1])
		}
		if rec[0] == core.IncomeKey {
			income = value
			return nil
		}
		limits.Set(rec[0], value)
		return nil
	})
	return income, limits, err
}

func readExpenses(path string) ([]core.Expense, error) {
	var out []core.Expense
	err := readTable(path, func(line int, rec []string) error {
		if len(rec) < 4 {
			return malformed(path, line, "expected 4 fields, got %d", len(rec))
		}
		date, err := core.ParseDate(rec[0])
		if err != nil {
			return malformed(path, line, "bad date %q", rec[0])
		}
		amount, err := core.ParseDecimal(rec[2])
		if err != nil {
			return malformed(path, line, "non-numeric amount %q", rec[2])
		}
		out = append(out, core.Expense{Date: date, Category: rec[1], Amount: amount, Description: rec[3]})
		return nil
	})
	return out, err
}

// readTable calls fn for every record after the header. Line numbers are 1-based.
func readTable(path string, fn func(line int, rec []string) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w: %v", path, core.ErrMalformedRecord, err)
		}
		if header {
			header = false
			continue
		}
		line, _ := r.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func malformed(path string, line int, format string, args ...any) error {
	return fmt.Errorf("%s line %d: %w: %s", path, line, core.ErrMalformedRecord, fmt.Sprintf(format, args...))
}

func writeFileAtomic(path string, rows [][]string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}
