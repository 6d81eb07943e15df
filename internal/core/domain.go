package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date used in every persisted table.
const DateLayout = "2006-01-02"

// DefaultDescription replaces an empty expense description.
const DefaultDescription = "No description"

// IncomeKey is the reserved row key that stores income in the limits table.
const IncomeKey = "INCOME"

type (
	Date struct {
		time.Time
	}

	Expense struct {
		Date        Date
		Category    string
		Amount      decimal.Decimal
		Description string
	}
)

var (
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrEmptyCategory            = errors.New("empty category")
	ErrUnknownCategory          = errors.New("unknown category")
	ErrUnknownCategorySelection = errors.New("unknown category selection")
	ErrMalformedRecord          = errors.New("malformed record")
	ErrInvalidDate              = errors.New("invalid date")
	ErrReservedCategory         = errors.New("reserved category name")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf drops the time component of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NormalizeDescription returns the description trimmed, or the placeholder when empty.
func NormalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDescription
	}
	return s
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := ValidateCategory(e.Category); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
