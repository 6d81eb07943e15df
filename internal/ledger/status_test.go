package ledger_test

import (
	"context"
	"testing"

	"budget/internal/ledger"
)

func TestBudgetStatusScenarios(t *testing.T) {
	l := setup(t)
	ctx := context.Background()

	if _, err := l.AddExpense(ctx, "Groceries", dec("350"), "weekly shop", day); err != nil {
		t.Fatal(err)
	}
	st := l.BudgetStatus("Groceries")
	if !st.Spent.Equal(dec("350")) || !st.Limit.Equal(dec("400")) || !st.Remaining.Equal(dec("50")) {
		t.Fatalf("unexpected status %+v", st)
	}
	if !st.Percentage.Equal(dec("87.5")) || st.State != ledger.Approaching {
		t.Fatalf("expected 87.5%% approaching, got %s %s", st.Percentage, st.State)
	}

	if _, err := l.AddExpense(ctx, "Groceries", dec("100"), "top up", day); err != nil {
		t.Fatal(err)
	}
	st = l.BudgetStatus("Groceries")
	if !l.CategoryTotal("Groceries").Equal(dec("450")) {
		t.Fatalf("unexpected total %s", l.CategoryTotal("Groceries"))
	}
	if st.State != ledger.OverBudget || !st.Remaining.Equal(dec("-50")) {
		t.Fatalf("expected over budget with -50 remaining, got %s %s", st.State, st.Remaining)
	}
}

func TestNewStatusBoundaries(t *testing.T) {
	cases := []struct {
		name         string
		spent, limit string
		want         ledger.BudgetState
		pct          string
	}{
		{"nothing spent", "0", "100", ledger.WithinBudget, "0"},
		{"exactly 80 percent", "80", "100", ledger.WithinBudget, "80"},
		{"just above 80 percent", "80.01", "100", ledger.Approaching, "80.01"},
		{"exactly at limit", "100", "100", ledger.Approaching, "100"},
		{"just over limit", "100.01", "100", ledger.OverBudget, "100.01"},
		{"zero limit nothing spent", "0", "0", ledger.WithinBudget, "0"},
		{"zero limit with spending", "5", "0", ledger.OverBudget, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := ledger.NewStatus("c", dec(tc.spent), dec(tc.limit))
			if st.State != tc.want {
				t.Fatalf("state = %s, want %s", st.State, tc.want)
			}
			if !st.Percentage.Equal(dec(tc.pct)) {
				t.Fatalf("percentage = %s, want %s", st.Percentage, tc.pct)
			}
		})
	}
}

func TestBudgetStatusForCategoryWithoutLimit(t *testing.T) {
	snap := ledger.Snapshot{}
	st := snap.BudgetStatus("Ghost")
	if !st.Limit.IsZero() || !st.Percentage.IsZero() || st.State != ledger.WithinBudget {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestBudgetStateString(t *testing.T) {
	if ledger.OverBudget.String() != "over_budget" || ledger.BudgetState(9).String() != "unknown" {
		t.Fatalf("unexpected state names")
	}
}
