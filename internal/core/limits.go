package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Limits maps category names to monthly limits, keeping insertion order.
// The zero value is ready to use.
type Limits struct {
	order  []string
	values map[string]decimal.Decimal
}

// CategoryLimit is one entry of Limits.
type CategoryLimit struct {
	Category string
	Limit    decimal.Decimal
}

// Set creates or overwrites a category limit. Overwriting keeps the
// category's original position.
func (l *Limits) Set(category string, limit decimal.Decimal) {
	if l.values == nil {
		l.values = make(map[string]decimal.Decimal)
	}
	if _, ok := l.values[category]; !ok {
		l.order = append(l.order, category)
	}
	l.values[category] = limit
}

// Get returns the limit for category and whether it exists.
func (l Limits) Get(category string) (decimal.Decimal, bool) {
	v, ok := l.values[category]
	return v, ok
}

// LimitOf returns the limit for category, or zero when it has none.
func (l Limits) LimitOf(category string) decimal.Decimal {
	v, ok := l.values[category]
	if !ok {
		return decimal.Zero
	}
	return v
}

func (l Limits) Has(category string) bool {
	_, ok := l.values[category]
	return ok
}

func (l Limits) Len() int {
	return len(l.order)
}

// Categories returns category names in insertion order.
func (l Limits) Categories() []string {
	return append([]string(nil), l.order...)
}

// Entries returns all limits in insertion order.
func (l Limits) Entries() []CategoryLimit {
	out := make([]CategoryLimit, 0, len(l.order))
	for _, c := range l.order {
		out = append(out, CategoryLimit{Category: c, Limit: l.values[c]})
	}
	return out
}

// At resolves a 1-based menu selection to a category name.
func (l Limits) At(selection int) (string, error) {
	if selection < 1 || selection > len(l.order) {
		return "", ErrUnknownCategorySelection
	}
	return l.order[selection-1], nil
}

// Total sums every limit.
func (l Limits) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range l.order {
		total = total.Add(l.values[c])
	}
	return total
}

// Clone returns an independent copy.
func (l Limits) Clone() Limits {
	out := Limits{
		order:  append([]string(nil), l.order...),
		values: make(map[string]decimal.Decimal, len(l.values)),
	}
	for k, v := range l.values {
		out.values[k] = v
	}
	return out
}

// ValidateCategory rejects blank names and the reserved income key.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return ErrEmptyCategory
	}
	if category == IncomeKey {
		return ErrReservedCategory
	}
	return nil
}
