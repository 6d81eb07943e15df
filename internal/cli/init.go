// Package cli provides the start-up helpers used by cmd/budget.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budget/internal/config"
	applog "budget/internal/log"
)

// LoadEnvFile loads a .env file for local use.
// A missing file is not an error; any other failure is returned.
func LoadEnvFile(paths ...string) error {
	for _, p := range append([]string{".env"}, paths...) {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. An unparsable level falls back to warn.
func SetupLogger(cfg *config.Config) *applog.Logger {
	lc := applog.DefaultConfig()
	if cfg != nil {
		if level, err := applog.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
	}
	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		if parent.Err() == nil && logger != nil {
			logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		}
	}()
	return ctx, stop
}
