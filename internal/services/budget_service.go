package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

// EventPublisher announces expenses after they are persisted.
type EventPublisher interface {
	PublishExpenseRecorded(ctx context.Context, e core.Expense, st ledger.Status) error
	Close() error
}

// BudgetService orchestrates ledger mutations and event publishing.
type BudgetService struct {
	ledger    *ledger.Ledger
	store     io.Closer
	publisher EventPublisher
	logger    *applog.Logger
}

// NewBudgetService wires a loaded ledger to an optional store closer and an
// optional publisher. Pass untyped nil for the parts that are not configured.
func NewBudgetService(l *ledger.Ledger, store io.Closer, publisher EventPublisher, logger *applog.Logger) *BudgetService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &BudgetService{
		ledger:    l,
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentLedger),
	}
}

func (s *BudgetService) Income() decimal.Decimal { return s.ledger.Income() }
func (s *BudgetService) Limits() core.Limits     { return s.ledger.Limits() }
func (s *BudgetService) NeedsSetup() bool        { return s.ledger.NeedsSetup() }
func (s *BudgetService) Snapshot() ledger.Snapshot {
	return s.ledger.Snapshot()
}

// SetIncome records the monthly income.
func (s *BudgetService) SetIncome(ctx context.Context, v decimal.Decimal) error {
	if err := s.ledger.SetIncome(ctx, v); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Income updated",
		applog.FieldOperation, applog.OpSetIncome,
		applog.FieldAmount, v.String())
	return nil
}

// SetCategoryLimit creates or overwrites a category limit.
func (s *BudgetService) SetCategoryLimit(ctx context.Context, category string, v decimal.Decimal) error {
	if err := s.ledger.SetCategoryLimit(ctx, category, v); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Category limit updated",
		applog.FieldOperation, applog.OpSetLimit,
		applog.FieldCategory, category,
		applog.FieldAmount, v.String())
	return nil
}

// RecordExpense saves an expense and returns the category's resulting status.
// The expense is persisted before any event is published; a publish failure
// is logged and does not fail the call.
func (s *BudgetService) RecordExpense(ctx context.Context, category string, amount decimal.Decimal, description string, date core.Date) (core.Expense, ledger.Status, error) {
	e, err := s.ledger.AddExpense(ctx, category, amount, description, date)
	if err != nil {
		return core.Expense{}, ledger.Status{}, err
	}
	st := s.ledger.BudgetStatus(category)

	fields := applog.NewFields().
		WithOperation(applog.OpAddExpense).
		WithExpense(e.Category, e.Amount.String(), e.Date.String())
	fields[applog.FieldBudgetState] = st.State.String()
	s.logger.InfoContext(ctx, "Expense recorded", fields.ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseRecorded(ctx, e, st); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish expense event",
				applog.NewFields().WithOperation(applog.OpPublish).WithError(err).ToSlice()...)
		}
	}
	return e, st, nil
}

// Close closes the publisher and the store.
func (s *BudgetService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close budget service: %w", errors.Join(errs...))
	}
	return nil
}
