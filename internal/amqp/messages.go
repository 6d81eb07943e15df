package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/ledger"
)

// ExpenseRecordedMessage announces an expense that has already been
// persisted, together with the category state it produced.
type ExpenseRecordedMessage struct {
	EventID     string          `json:"event_id"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Limit       decimal.Decimal `json:"limit"`
	Spent       decimal.Decimal `json:"spent"`
	BudgetState string          `json:"budget_state"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewExpenseRecordedMessage builds a message with a fresh event id.
func NewExpenseRecordedMessage(e core.Expense, st ledger.Status) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		EventID:     uuid.NewString(),
		Date:        e.Date.String(),
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		Limit:       st.Limit,
		Spent:       st.Spent,
		BudgetState: st.State.String(),
		Timestamp:   time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
