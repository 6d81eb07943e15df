package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/ledger"
	applog "budget/internal/log"
	"budget/internal/services"
	"budget/internal/shell"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("Budget tracker stopped", applog.FieldError, err)
		stop()
		os.Exit(1)
	}
}

// run wires the backend, ledger, publisher and exporters and serves the
// shell until it returns. Cancellation by signal is a clean exit.
func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, in io.Reader, out io.Writer) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Starting budget tracker",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, bcfg.Type.String())

	factory := backend.NewFactory(logger)
	res, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	l, err := ledger.Load(ctx, res.Store)
	if err != nil {
		res.Close()
		return err
	}
	logger.InfoContext(ctx, "Ledger loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldBackend, bcfg.Type.String())

	svc := services.NewBudgetService(l, res, factory.CreatePublisher(ctx, bcfg), logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Shutdown cleanup failed", applog.FieldError, err)
		}
	}()

	sh := shell.New(svc, factory.CreateExporter(ctx, bcfg), in, out, shell.Options{
		Recent: cfg.RecentTransactions,
		Logger: logger,
	})
	err = sh.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
