package memory

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"budget/internal/core"
	"budget/internal/ledger"

	"github.com/shopspring/decimal"
)

// SeedFile is the optional file NewFromFiles reads default limits from.
const SeedFile = "seed_limits.txt"

var _ ledger.Store = (*Store)(nil)

// Store keeps the ledger tables in process memory.
type Store struct {
	mu     sync.Mutex
	income decimal.Decimal
	limits core.Limits
	items  []core.Expense
	saves  int
}

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds category limits from base/seed_limits.txt, one
// "Category=Limit" per line. Blank lines and # comments are skipped.
func NewFromFiles(base string) *Store {
	s := New()
	for _, line := range readLines(filepath.Join(base, SeedFile)) {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			slog.Warn("Skipping seed line without '='", "line", line)
			continue
		}
		name = strings.TrimSpace(name)
		limit, err := core.ParseAmount(value)
		if err != nil || core.ValidateCategory(name) != nil {
			slog.Warn("Skipping invalid seed line", "line", line)
			continue
		}
		s.limits.Set(name, limit)
	}
	return s
}

// Load returns a copy of the stored tables.
func (s *Store) Load(_ context.Context) (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Snapshot{
		Income:   s.income,
		Limits:   s.limits.Clone(),
		Expenses: append([]core.Expense(nil), s.items...),
	}, nil
}

// SaveLimits replaces income and limits.
func (s *Store) SaveLimits(_ context.Context, income decimal.Decimal, limits core.Limits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.income = income
	s.limits = limits.Clone()
	s.saves++
	return nil
}

// AppendExpense stores the expense.
func (s *Store) AppendExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return nil
}

// LimitSaves reports how many times the limits table was written.
func (s *Store) LimitSaves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
