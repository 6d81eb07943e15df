// Package shell is the interactive text menu of the budget tracker.
//
// The shell reads one line per prompt. Invalid input re-prompts; storage
// failures end the session with an error. End of input behaves like Exit.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/ledger"
	applog "budget/internal/log"
	"budget/internal/report"
)

// Budget is the ledger surface the shell drives.
type Budget interface {
	Income() decimal.Decimal
	Limits() core.Limits
	NeedsSetup() bool
	Snapshot() ledger.Snapshot
	SetIncome(ctx context.Context, v decimal.Decimal) error
	SetCategoryLimit(ctx context.Context, category string, v decimal.Decimal) error
	RecordExpense(ctx context.Context, category string, amount decimal.Decimal, description string, date core.Date) (core.Expense, ledger.Status, error)
}

// Exporter writes export rows to every configured target.
type Exporter interface {
	ExportAll(ctx context.Context, rows []report.ExportRow, at time.Time) ([]export.Result, error)
}

// Options tunes a Shell. Zero values pick the defaults.
type Options struct {
	Recent int
	Now    func() time.Time
	Logger *applog.Logger
}

type Shell struct {
	budget   Budget
	exporter Exporter
	in       io.Reader
	out      io.Writer
	recent   int
	now      func() time.Time
	logger   *applog.Logger
	st       styles

	lines chan string
	inErr error
}

const rule = "=================================================="

var menu = []string{
	"1. Add Expense",
	"2. View Budget Status",
	"3. Monthly Summary",
	"4. Manage Budget Limits",
	"5. Export Data to CSV",
	"6. Exit",
}

// CommonCategories is the hint printed during setup.
const CommonCategories = "Groceries, Rent, Entertainment, Transportation, Utilities, Dining, Shopping, Healthcare"

func New(b Budget, x Exporter, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.Recent <= 0 {
		opts.Recent = report.DefaultRecent
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	return &Shell{
		budget:   b,
		exporter: x,
		in:       in,
		out:      out,
		recent:   opts.Recent,
		now:      opts.Now,
		logger:   opts.Logger.WithComponent(applog.ComponentShell),
		st:       newStyles(out),
	}
}

// Run shows the banner, runs first-time setup when needed and then serves
// the main menu until Exit, end of input or ctx cancellation. It returns nil
// on Exit and end of input, ctx.Err() on cancellation and the underlying
// error when the ledger cannot be persisted.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.startReader(ctx)

	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		s.goodbye()
		return nil
	}
	return err
}

func (s *Shell) run(ctx context.Context) error {
	s.println(rule)
	s.println(s.st.title.Render("   PERSONAL BUDGET TRACKER"))
	s.println(rule)

	if s.budget.NeedsSetup() {
		s.println("\nFirst time setup required!")
		if err := s.setup(ctx); err != nil {
			return err
		}
	}

	for {
		s.println("\n" + rule)
		s.println("MAIN MENU")
		s.println(rule)
		for _, item := range menu {
			s.println(item)
		}

		choice, err := s.prompt(ctx, "\nEnter your choice (1-6): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.addExpense(ctx)
		case "2":
			s.viewStatus()
		case "3":
			s.monthlySummary()
		case "4":
			err = s.setup(ctx)
		case "5":
			s.exportData(ctx)
		case "6":
			s.goodbye()
			return nil
		default:
			s.println("Invalid choice! Please enter 1-6.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) goodbye() {
	s.println("\nThank you for using Budget Tracker!")
	s.println("Your data has been saved. Goodbye!")
}

// startReader feeds input lines through a channel so that a pending prompt
// can be abandoned when ctx is cancelled.
func (s *Shell) startReader(ctx context.Context) {
	s.lines = make(chan string)
	go func() {
		defer close(s.lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case s.lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		s.inErr = sc.Err()
	}()
}

// prompt prints label and returns the next input line, trimmed.
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			s.println("")
			if s.inErr != nil {
				return "", fmt.Errorf("read input: %w", s.inErr)
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// isInputError reports whether err is a validation failure the user can
// correct by re-entering a value.
func isInputError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyCategory,
		core.ErrReservedCategory,
		core.ErrUnknownCategory,
		core.ErrUnknownCategorySelection,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
