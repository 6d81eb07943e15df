package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/report"
)

// setup asks for income and then category limits until an empty name.
// Each accepted value is persisted immediately.
func (s *Shell) setup(ctx context.Context) error {
	s.println("\n=== BUDGET SETUP ===")

	if err := s.setupIncome(ctx); err != nil {
		return err
	}

	s.println("\nSet up your budget categories (or press Enter to skip):")
	s.println(s.st.muted.Render("Common categories: " + CommonCategories))

	for {
		category, err := s.prompt(ctx, "\nCategory name (or press Enter to finish): ")
		if err != nil {
			return err
		}
		if category == "" {
			break
		}
		if err := core.ValidateCategory(category); err != nil {
			s.println(categoryMessage(err))
			continue
		}

		limits := s.budget.Limits()
		if current, ok := limits.Get(category); ok {
			s.printf("Current limit for %s: $%s\n", category, core.FormatAmount(current))
			answer, err := s.prompt(ctx, "Update? (y/n): ")
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") {
				continue
			}
		}

		raw, err := s.prompt(ctx, fmt.Sprintf("Budget limit for %s: $", category))
		if err != nil {
			return err
		}
		limit, ok := s.parsePositive(raw, "Invalid amount!", "Limit must be positive!")
		if !ok {
			continue
		}
		if err := s.budget.SetCategoryLimit(ctx, category, limit); err != nil {
			return err
		}
	}

	s.println("")
	s.println(s.st.success.Render("Budget setup complete!"))
	return nil
}

func (s *Shell) setupIncome(ctx context.Context) error {
	income := s.budget.Income()
	if !income.IsPositive() {
		for {
			raw, err := s.prompt(ctx, "Enter your monthly income: $")
			if err != nil {
				return err
			}
			v, ok := s.parsePositive(raw, "Please enter a valid number!", "Income must be positive!")
			if !ok {
				continue
			}
			return s.budget.SetIncome(ctx, v)
		}
	}

	s.printf("Current monthly income: $%s\n", core.FormatAmount(income))
	answer, err := s.prompt(ctx, "Would you like to change it? (y/n): ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		return nil
	}
	raw, err := s.prompt(ctx, "Enter new monthly income: $")
	if err != nil {
		return err
	}
	v, err := core.ParseAmount(raw)
	if err != nil {
		s.println("Invalid input. Keeping current income.")
		return nil
	}
	return s.budget.SetIncome(ctx, v)
}

func (s *Shell) addExpense(ctx context.Context) error {
	s.println("\n=== ADD EXPENSE ===")

	limits := s.budget.Limits()
	if limits.Len() == 0 {
		s.println("No budget categories set up yet!")
		return nil
	}

	s.println("\nAvailable categories:")
	for i, c := range limits.Categories() {
		s.printf("%d. %s\n", i+1, c)
	}
	other := limits.Len() + 1
	s.printf("%d. Other (create new category)\n", other)

	category, err := s.selectCategory(ctx, limits, other)
	if err != nil {
		return err
	}

	var amount decimal.Decimal
	for {
		raw, err := s.prompt(ctx, "Amount spent: $")
		if err != nil {
			return err
		}
		v, ok := s.parsePositive(raw, "Please enter a valid number!", "Amount must be positive!")
		if ok {
			amount = v
			break
		}
	}

	description, err := s.prompt(ctx, "Description (optional): ")
	if err != nil {
		return err
	}

	_, st, err := s.budget.RecordExpense(ctx, category, amount, description, core.DateOf(s.now()))
	if err != nil {
		return err
	}

	s.println("")
	s.println(s.st.success.Render(fmt.Sprintf("✓ Added $%s to %s", core.FormatAmount(amount), category)))
	if alert := report.Alert(st); alert != "" {
		style := s.st.warning
		if st.State == ledger.OverBudget {
			style = s.st.danger
		}
		s.println(style.Render("⚠ " + alert))
	}
	return nil
}

// selectCategory loops until the user picks an existing category or creates
// a new one through the Other entry.
func (s *Shell) selectCategory(ctx context.Context, limits core.Limits, other int) (string, error) {
	for {
		raw, err := s.prompt(ctx, "\nSelect category number: ")
		if err != nil {
			return "", err
		}
		choice, err := strconv.Atoi(raw)
		if err != nil {
			s.println("Please enter a valid number!")
			continue
		}

		if choice == other {
			category, err := s.createCategory(ctx)
			if err != nil {
				return "", err
			}
			if category == "" {
				continue
			}
			return category, nil
		}

		category, err := limits.At(choice)
		if errors.Is(err, core.ErrUnknownCategorySelection) {
			s.println("Invalid choice!")
			continue
		}
		return category, err
	}
}

// createCategory prompts for a new category and its limit. It returns ""
// when the input was rejected and the selection should be asked again.
func (s *Shell) createCategory(ctx context.Context) (string, error) {
	name, err := s.prompt(ctx, "Enter new category name: ")
	if err != nil {
		return "", err
	}
	if err := core.ValidateCategory(name); err != nil {
		s.println(categoryMessage(err))
		return "", nil
	}
	raw, err := s.prompt(ctx, fmt.Sprintf("Set budget limit for %s: $", name))
	if err != nil {
		return "", err
	}
	limit, ok := s.parsePositive(raw, "Invalid amount!", "Limit must be positive!")
	if !ok {
		return "", nil
	}
	if err := s.budget.SetCategoryLimit(ctx, name, limit); err != nil {
		if isInputError(err) {
			s.println(err.Error())
			return "", nil
		}
		return "", err
	}
	return name, nil
}

// parsePositive parses raw as an amount and prints invalidMsg for
// non-numeric input or nonPositiveMsg for zero and negatives.
func (s *Shell) parsePositive(raw, invalidMsg, nonPositiveMsg string) (decimal.Decimal, bool) {
	v, err := core.ParseDecimal(raw)
	if err != nil {
		s.println(invalidMsg)
		return decimal.Zero, false
	}
	if !v.IsPositive() {
		s.println(nonPositiveMsg)
		return decimal.Zero, false
	}
	return v, true
}

func categoryMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrReservedCategory):
		return fmt.Sprintf("%s is a reserved name!", core.IncomeKey)
	case errors.Is(err, core.ErrEmptyCategory):
		return "Category name cannot be empty!"
	default:
		return err.Error()
	}
}
