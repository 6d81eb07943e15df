// Package storage is the SQLite ledger backend. Amounts are stored as
// decimal text so values round-trip exactly.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const incomeSetting = "income"

var _ ledger.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements ledger.Store
func (r *SQLiteRepository) Load(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	income, err := r.income(ctx)
	if err != nil {
		return snap, err
	}
	snap.Income = income

	limits, err := r.limits(ctx)
	if err != nil {
		return snap, err
	}
	snap.Limits = limits

	expenses, err := r.expenses(ctx)
	if err != nil {
		return snap, err
	}
	snap.Expenses = expenses

	slog.DebugContext(ctx, "Ledger loaded from SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpLoad,
		"categories", limits.Len(),
		"expenses", len(expenses))
	return snap, nil
}

func (r *SQLiteRepository) income(ctx context.Context) (decimal.Decimal, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM ledger_settings WHERE key = ?`, incomeSetting).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get income: %w", err)
	}
	income, err := core.ParseDecimal(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("income %q: %w", raw, core.ErrMalformedRecord)
	}
	return income, nil
}

func (r *SQLiteRepository) limits(ctx context.Context) (core.Limits, error) {
	var limits core.Limits
	rows, err := r.db.QueryContext(ctx, `SELECT category, limit_value FROM budget_limits ORDER BY position`)
	if err != nil {
		return limits, fmt.Errorf("get limits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, raw string
		if err := rows.Scan(&category, &raw); err != nil {
			return limits, fmt.Errorf("scan limit: %w", err)
		}
		value, err := core.ParseDecimal(raw)
		if err != nil {
			return limits, fmt.Errorf("limit for %s %q: %w", category, raw, core.ErrMalformedRecord)
		}
		limits.Set(category, value)
	}
	return limits, rows.Err()
}

func (r *SQLiteRepository) expenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, category, amount, description FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			id                           int64
			rawDate, category, raw, desc string
		)
		if err := rows.Scan(&id, &rawDate, &category, &raw, &desc); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		date, err := core.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("expense %d date %q: %w", id, rawDate, core.ErrMalformedRecord)
		}
		amount, err := core.ParseDecimal(raw)
		if err != nil {
			return nil, fmt.Errorf("expense %d amount %q: %w", id, raw, core.ErrMalformedRecord)
		}
		out = append(out, core.Expense{Date: date, Category: category, Amount: amount, Description: desc})
	}
	return out, rows.Err()
}

// SaveLimits implements ledger.Store. Income and limits are replaced in one
// transaction.
func (r *SQLiteRepository) SaveLimits(ctx context.Context, income decimal.Decimal, limits core.Limits) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		incomeSetting, income.String()); err != nil {
		return fmt.Errorf("save income: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_limits`); err != nil {
		return fmt.Errorf("clear limits: %w", err)
	}
	for i, e := range limits.Entries() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budget_limits (category, limit_value, position) VALUES (?, ?, ?)`,
			e.Category, e.Limit.String(), i); err != nil {
			return fmt.Errorf("save limit for %s: %w", e.Category, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit limits: %w", err)
	}

	slog.DebugContext(ctx, "Limits saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		"categories", limits.Len())
	return nil
}

// AppendExpense implements ledger.Store
func (r *SQLiteRepository) AppendExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, category, amount, description) VALUES (?, ?, ?, ?)`,
		e.Date.String(), e.Category, e.Amount.String(), e.Description)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	id, _ := res.LastInsertId()

	slog.DebugContext(ctx, "Expense saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		"id", id,
		applog.FieldCategory, e.Category,
		applog.FieldAmount, e.Amount.String(),
		applog.FieldDate, e.Date.String())
	return nil
}
