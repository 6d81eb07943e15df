package ledger

import (
	"context"

	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// Ports for outbound storage adapters.
type (
	// Store persists the two ledger tables. Every call blocks until the
	// write is durable or has failed.
	Store interface {
		// Load returns the persisted state. Missing tables yield an empty snapshot.
		Load(ctx context.Context) (Snapshot, error)
		// SaveLimits replaces the limits table, including the income row.
		SaveLimits(ctx context.Context, income decimal.Decimal, limits core.Limits) error
		// AppendExpense adds one row to the expense log.
		AppendExpense(ctx context.Context, e core.Expense) error
	}
)
