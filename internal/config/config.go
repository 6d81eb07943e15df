package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	applog "budget/internal/log"
)

type Config struct {
	// CSV tables
	DataDir      string
	LimitsFile   string
	ExpensesFile string
	ExportDir    string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleExportSheetName    string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Reporting
	RecentTransactions int

	LogLevel string

	// Backend selection
	DataBackend string
}

// ValidBackends lists the accepted DATA_BACKEND values.
var ValidBackends = []string{"csv", "sqlite", "memory"}

func Load() *Config {
	return &Config{
		DataDir:      getEnv("BUDGET_DATA_DIR", "."),
		LimitsFile:   getEnv("BUDGET_LIMITS_FILE", "budget_limits.csv"),
		ExpensesFile: getEnv("BUDGET_EXPENSES_FILE", "expenses.csv"),
		ExportDir:    getEnv("BUDGET_EXPORT_DIR", "."),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleExportSheetName:    getEnv("GOOGLE_EXPORT_SHEET_NAME", "Budget Export"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		RecentTransactions: getEnvInt("RECENT_TRANSACTIONS", 10),

		LogLevel: getEnv("LOG_LEVEL", "warn"),

		DataBackend: getEnv("DATA_BACKEND", "csv"),
	}
}

// LimitsPath resolves the limits table against DataDir unless it is absolute.
func (c *Config) LimitsPath() string {
	return c.resolve(c.LimitsFile)
}

// ExpensesPath resolves the expenses table against DataDir unless it is absolute.
func (c *Config) ExpensesPath() string {
	return c.resolve(c.ExpensesFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// SheetsEnabled reports whether exports should also go to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	isValidBackend := false
	for _, backend := range ValidBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, ValidBackends))
	}

	if c.DataBackend == "csv" {
		if strings.TrimSpace(c.LimitsFile) == "" || strings.TrimSpace(c.ExpensesFile) == "" {
			errors = append(errors, "limits and expenses file names cannot be empty when using csv backend")
		} else if c.LimitsPath() == c.ExpensesPath() {
			errors = append(errors, fmt.Sprintf("limits and expenses tables must be different files, both are '%s'", c.LimitsPath()))
		}
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if strings.TrimSpace(c.ExportDir) == "" {
		errors = append(errors, "export directory cannot be empty")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		if c.GoogleExportSheetName == "" {
			errors = append(errors, "Google export sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets export")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.RecentTransactions < 1 {
		errors = append(errors, fmt.Sprintf("invalid recent transactions count %d: must be at least 1", c.RecentTransactions))
	} else if c.RecentTransactions > 1000 {
		errors = append(errors, fmt.Sprintf("invalid recent transactions count %d: must be at most 1000", c.RecentTransactions))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
