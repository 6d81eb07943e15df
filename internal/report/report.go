// Package report derives presentation-ready aggregates from a ledger
// snapshot. Every function is pure.
package report

import (
	"sort"

	"budget/internal/core"
	"budget/internal/ledger"

	"github.com/shopspring/decimal"
)

// DefaultRecent is how many transactions Recent returns when n is not positive.
const DefaultRecent = 10

type (
	// StatusRow is one category line of the status report.
	StatusRow struct {
		ledger.Status
		// Fill is min(spent/limit, 1), or 0 without a positive limit.
		Fill decimal.Decimal
	}

	StatusReport struct {
		Rows        []StatusRow
		Income      decimal.Decimal
		TotalBudget decimal.Decimal
		TotalSpent  decimal.Decimal
		// Remaining is income minus total spent and may be negative.
		Remaining decimal.Decimal
	}

	CategorySummary struct {
		Category     string
		Transactions int
		Total        decimal.Decimal
		Percent      decimal.Decimal
	}

	Summary struct {
		Categories   []CategorySummary
		Income       decimal.Decimal
		TotalSpent   decimal.Decimal
		NetSavings   decimal.Decimal
		Transactions int
	}

	// ExportRow is the flat record written by exporters.
	ExportRow struct {
		Date        core.Date
		Category    string
		Amount      decimal.Decimal
		Description string
		Limit       decimal.Decimal
	}
)

// Status reports every category in limit insertion order plus overall totals.
func Status(s ledger.Snapshot) StatusReport {
	rep := StatusReport{
		Income:      s.Income,
		TotalBudget: s.Limits.Total(),
		TotalSpent:  s.TotalSpent(),
	}
	rep.Remaining = s.Income.Sub(rep.TotalSpent)
	for _, c := range s.Limits.Categories() {
		st := s.BudgetStatus(c)
		rep.Rows = append(rep.Rows, StatusRow{Status: st, Fill: fill(st.Spent, st.Limit)})
	}
	return rep
}

func fill(spent, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(spent.Div(limit), decimal.NewFromInt(1))
}

// MonthlySummary groups expenses by category, sorted by category name.
// Unlike Status it includes categories that have no limit and skips
// categories with no expenses.
func MonthlySummary(s ledger.Snapshot) Summary {
	total := s.TotalSpent()
	sum := Summary{
		Income:       s.Income,
		TotalSpent:   total,
		NetSavings:   s.Income.Sub(total),
		Transactions: len(s.Expenses),
	}

	byCat := map[string]*CategorySummary{}
	for _, e := range s.Expenses {
		cs, ok := byCat[e.Category]
		if !ok {
			cs = &CategorySummary{Category: e.Category, Total: decimal.Zero}
			byCat[e.Category] = cs
		}
		cs.Transactions++
		cs.Total = cs.Total.Add(e.Amount)
	}
	for _, cs := range byCat {
		cs.Percent = core.Percent(cs.Total, total)
		sum.Categories = append(sum.Categories, *cs)
	}
	sort.Slice(sum.Categories, func(i, j int) bool {
		return sum.Categories[i].Category < sum.Categories[j].Category
	})
	return sum
}

// Recent returns the last n expenses, most recently added first.
func Recent(s ledger.Snapshot, n int) []core.Expense {
	if n <= 0 {
		n = DefaultRecent
	}
	start := len(s.Expenses) - n
	if start < 0 {
		start = 0
	}
	tail := s.Expenses[start:]
	out := make([]core.Expense, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		out = append(out, tail[i])
	}
	return out
}

// ExportRows flattens every expense in insertion order with its category's
// current limit, or zero when the category has none.
func ExportRows(s ledger.Snapshot) []ExportRow {
	rows := make([]ExportRow, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		rows = append(rows, ExportRow{
			Date:        e.Date,
			Category:    e.Category,
			Amount:      e.Amount,
			Description: e.Description,
			Limit:       s.Limits.LimitOf(e.Category),
		})
	}
	return rows
}
