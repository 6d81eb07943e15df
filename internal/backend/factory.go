// Package backend builds the ledger store, the optional event publisher and
// the export targets from configuration.
package backend

import (
	"context"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/csvstore"
	"budget/internal/export"
	applog "budget/internal/log"
	"budget/internal/memory"
	"budget/internal/services"
	gsheet "budget/internal/sheets/google"
	"budget/internal/storage"
)

// amqpDialAttempts bounds start-up reconnects so a missing broker delays the
// menu by seconds, not minutes.
const amqpDialAttempts = 3

// Factory creates the pieces the shell runs on.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
	CreatePublisher(ctx context.Context, config Config) services.EventPublisher
	CreateExporter(ctx context.Context, config Config) *export.Multi
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(ctx context.Context, config Config) (*Result, error) {
	store := csvstore.New(config.LimitsPath, config.ExpensesPath)

	f.logger.InfoContext(ctx, "Initialized CSV backend",
		"limits_path", config.LimitsPath,
		"expenses_path", config.ExpensesPath)

	return &Result{Store: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*Result, error) {
	store := memory.New()
	if config.DataDirectory != "" {
		store = memory.NewFromFiles(config.DataDirectory)
	}

	f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", config.DataDirectory)

	return &Result{Store: store}, nil
}

// CreatePublisher connects to the broker when AMQPURL is set. Connection
// failures are logged and the session continues without events.
func (f *DefaultFactory) CreatePublisher(ctx context.Context, config Config) services.EventPublisher {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.Dial(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, amqpDialAttempts, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
			applog.FieldError, err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

// CreateExporter always includes the CSV target. The Sheets target is added
// when a spreadsheet is configured and its client can be created.
func (f *DefaultFactory) CreateExporter(ctx context.Context, config Config) *export.Multi {
	targets := []export.Target{{Name: "csv", Exporter: export.NewCSVExporter(config.ExportDir)}}

	if config.GoogleSpreadsheetID != "" {
		sheets, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			SheetName:       config.GoogleExportSheetName,
			CredentialsJSON: config.GoogleServiceAccountJSON,
			CredentialsFile: config.GoogleServiceAccountFile,
		}, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize Google Sheets export, exporting to CSV only",
				applog.FieldError, err)
		} else {
			targets = append(targets, export.Target{Name: "Google Sheets", Exporter: sheets})
		}
	}

	return export.NewMulti(targets...)
}
