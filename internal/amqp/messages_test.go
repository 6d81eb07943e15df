package amqp

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/ledger"
)

func TestExpenseRecordedMessage(t *testing.T) {
	e := core.Expense{
		Date:        core.NewDate(2024, 3, 1),
		Category:    "Food",
		Amount:      decimal.RequireFromString("100"),
		Description: "groceries",
	}
	st := ledger.NewStatus("Food", decimal.RequireFromString("450"), decimal.RequireFromString("400"))

	msg := NewExpenseRecordedMessage(e, st)
	if msg.EventID == "" {
		t.Fatal("expected an event id")
	}
	if msg.BudgetState != "over_budget" {
		t.Errorf("BudgetState = %s, want over_budget", msg.BudgetState)
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"date":"2024-03-01"`) {
		t.Errorf("unexpected JSON: %s", data)
	}

	var got ExpenseRecordedMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if _, err := uuid.Parse(got.EventID); err != nil {
		t.Errorf("event id %q is not a uuid: %v", got.EventID, err)
	}
	if got.EventID != msg.EventID || got.Category != "Food" || !got.Amount.Equal(e.Amount) {
		t.Errorf("decoded message = %+v", got)
	}
}
