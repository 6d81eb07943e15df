package report

import (
	"fmt"
	"strings"

	"budget/internal/core"
	"budget/internal/ledger"

	"github.com/shopspring/decimal"
)

// BarWidth is the number of cells in a progress bar.
const BarWidth = 20

// Bar renders fill (0..1) as a fixed-width bar of filled and empty cells.
func Bar(fill decimal.Decimal, width int) string {
	if width <= 0 {
		width = BarWidth
	}
	filled := int(fill.Mul(decimal.NewFromInt(int64(width))).IntPart())
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Alert returns the warning shown after an expense is added, or "" when the
// category is comfortably within budget.
func Alert(st ledger.Status) string {
	switch st.State {
	case ledger.OverBudget:
		return fmt.Sprintf("WARNING: %s is over budget by $%s!", st.Category, core.FormatAmount(st.Spent.Sub(st.Limit)))
	case ledger.Approaching:
		return fmt.Sprintf("ALERT: %s is at %s%% of budget", st.Category, st.Percentage.StringFixed(1))
	default:
		return ""
	}
}

// RowNote returns the second status line for a category, if any.
func RowNote(st ledger.Status) string {
	switch st.State {
	case ledger.OverBudget:
		return fmt.Sprintf("OVER by $%s", core.FormatAmount(st.Spent.Sub(st.Limit)))
	case ledger.Approaching:
		return fmt.Sprintf("%s%% remaining", decimal.NewFromInt(100).Sub(st.Percentage).StringFixed(0))
	default:
		return ""
	}
}
