package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldBackend     = "backend"
	FieldPath        = "path"
	FieldCategory    = "category"
	FieldAmount      = "amount"
	FieldDate        = "date"
	FieldBudgetState = "budget_state"
	FieldEventID     = "event_id"
	FieldExportRef   = "export_ref"
	FieldRows        = "rows"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentShell   = "shell"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentExport  = "export"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
	OpLoad       = "load"
	OpSetIncome  = "set_income"
	OpSetLimit   = "set_limit"
	OpAddExpense = "add_expense"
	OpExport     = "export"
	OpPublish    = "publish"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(category, amount, date string) LogFields {
	f[FieldCategory] = category
	f[FieldAmount] = amount
	f[FieldDate] = date
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
