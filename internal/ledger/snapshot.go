package ledger

import (
	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// approachingPercent is the threshold above which a category is Approaching.
var approachingPercent = decimal.NewFromInt(80)

// BudgetState classifies a category's spending against its limit.
type BudgetState int

const (
	WithinBudget BudgetState = iota
	Approaching
	OverBudget
)

func (s BudgetState) String() string {
	switch s {
	case WithinBudget:
		return "within_budget"
	case Approaching:
		return "approaching"
	case OverBudget:
		return "over_budget"
	default:
		return "unknown"
	}
}

// Status is the spending position of one category.
type Status struct {
	Category   string
	Spent      decimal.Decimal
	Limit      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal
	State      BudgetState
}

// Snapshot is a point-in-time copy of the ledger. Its methods are pure.
type Snapshot struct {
	Income   decimal.Decimal
	Limits   core.Limits
	Expenses []core.Expense
}

// CategoryTotal sums the amounts recorded against category.
func (s Snapshot) CategoryTotal(category string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		if e.Category == category {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalSpent sums every expense.
func (s Snapshot) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// BudgetStatus reports spent, limit, remaining and percentage for category.
// A category without a limit is treated as having a limit of zero.
func (s Snapshot) BudgetStatus(category string) Status {
	spent := s.CategoryTotal(category)
	limit := s.Limits.LimitOf(category)
	return NewStatus(category, spent, limit)
}

// NewStatus classifies spent against limit. Over budget is strictly
// spent > limit, so spending exactly the limit is still Approaching.
func NewStatus(category string, spent, limit decimal.Decimal) Status {
	st := Status{
		Category:   category,
		Spent:      spent,
		Limit:      limit,
		Remaining:  limit.Sub(spent),
		Percentage: core.Percent(spent, limit),
	}
	switch {
	case spent.GreaterThan(limit):
		st.State = OverBudget
	case st.Percentage.GreaterThan(approachingPercent):
		st.State = Approaching
	default:
		st.State = WithinBudget
	}
	return st
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Income:   s.Income,
		Limits:   s.Limits.Clone(),
		Expenses: append([]core.Expense(nil), s.Expenses...),
	}
}
