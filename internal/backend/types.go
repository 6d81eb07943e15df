package backend

import (
	"budget/internal/ledger"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the ledger store and an optional cleanup function
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// CSV specific
	LimitsPath   string
	ExpensesPath string

	// SQLite specific
	SQLiteDBPath string

	// Memory backend seeds from this directory
	DataDirectory string

	// Optional expense events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Exports
	ExportDir                string
	GoogleSpreadsheetID      string
	GoogleExportSheetName    string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
