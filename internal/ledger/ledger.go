// Package ledger owns the budget aggregate: monthly income, per-category
// limits and the append-only expense log.
//
// Mutations validate their input, write through the Store and only then
// update memory, so a failed write never leaves the ledger ahead of disk.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// Ledger is the aggregate root. It is owned by a single caller and is not
// safe for concurrent use.
type Ledger struct {
	store Store
	state Snapshot
}

// New returns an empty ledger persisting to store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Load builds a ledger from the store's persisted tables.
func Load(ctx context.Context, store Store) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("ledger store is nil")
	}
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	slog.DebugContext(ctx, "Ledger loaded",
		"categories", snap.Limits.Len(),
		"expenses", len(snap.Expenses),
		"income_set", snap.Income.IsPositive())
	return &Ledger{store: store, state: snap.clone()}, nil
}

// Income returns the monthly income; zero means it was never set.
func (l *Ledger) Income() decimal.Decimal {
	return l.state.Income
}

// Limits returns a copy of the category limits.
func (l *Ledger) Limits() core.Limits {
	return l.state.Limits.Clone()
}

// NeedsSetup reports whether the first-run setup has not been completed.
func (l *Ledger) NeedsSetup() bool {
	return l.state.Limits.Len() == 0 || !l.state.Income.IsPositive()
}

// SetIncome sets the monthly income. Only positive values are accepted.
func (l *Ledger) SetIncome(ctx context.Context, value decimal.Decimal) error {
	if !value.IsPositive() {
		return core.ErrInvalidAmount
	}
	if err := l.store.SaveLimits(ctx, value, l.state.Limits); err != nil {
		return fmt.Errorf("save income: %w", err)
	}
	l.state.Income = value
	slog.DebugContext(ctx, "Income updated", "income", value.String())
	return nil
}

// SetCategoryLimit creates a category or overwrites its limit. Surrounding
// whitespace in the name is dropped.
func (l *Ledger) SetCategoryLimit(ctx context.Context, category string, value decimal.Decimal) error {
	category = strings.TrimSpace(category)
	if err := core.ValidateCategory(category); err != nil {
		return err
	}
	if !value.IsPositive() {
		return core.ErrInvalidAmount
	}
	next := l.state.Limits.Clone()
	next.Set(category, value)
	if err := l.store.SaveLimits(ctx, l.state.Income, next); err != nil {
		return fmt.Errorf("save limit for %s: %w", category, err)
	}
	l.state.Limits = next
	slog.DebugContext(ctx, "Category limit set", "category", category, "limit", value.String())
	return nil
}

// AddExpense records an expense against an existing category. The record is
// persisted before AddExpense returns. Identical calls add distinct records.
func (l *Ledger) AddExpense(ctx context.Context, category string, amount decimal.Decimal, description string, date core.Date) (core.Expense, error) {
	category = strings.TrimSpace(category)
	if err := core.ValidateCategory(category); err != nil {
		return core.Expense{}, err
	}
	if !l.state.Limits.Has(category) {
		return core.Expense{}, fmt.Errorf("%w: %s", core.ErrUnknownCategory, category)
	}
	e := core.Expense{
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: core.NormalizeDescription(description),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := l.store.AppendExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	l.state.Expenses = append(l.state.Expenses, e)
	slog.DebugContext(ctx, "Expense added",
		"category", e.Category,
		"amount", e.Amount.String(),
		"date", e.Date.String())
	return e, nil
}

// CategoryTotal sums the expenses recorded against category.
func (l *Ledger) CategoryTotal(category string) decimal.Decimal {
	return l.state.CategoryTotal(category)
}

// TotalSpent sums every expense.
func (l *Ledger) TotalSpent() decimal.Decimal {
	return l.state.TotalSpent()
}

// BudgetStatus classifies the category's spending against its limit.
func (l *Ledger) BudgetStatus(category string) Status {
	return l.state.BudgetStatus(category)
}

// Snapshot returns an independent copy for reporting.
func (l *Ledger) Snapshot() Snapshot {
	return l.state.clone()
}
