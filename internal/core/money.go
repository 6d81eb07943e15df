// Package core provides the budget value types and amount parsing.
//
// Amounts are decimal values backed by shopspring/decimal so that persisted
// limits and expenses round-trip without floating-point drift.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount converts user or file input into a strictly positive decimal.
//
// The decimal separator is a dot and a leading currency sign is allowed.
// Input containing a comma is rejected, as are zero, negative and
// non-numeric values, all with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("$12.34") -> 12.34, nil
//	ParseAmount("1,200")  -> 0, ErrInvalidAmount
//	ParseAmount("0")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseDecimal parses any decimal, including zero and negatives.
// Persisted tables use it so that a stored income of 0 stays readable.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" || strings.Contains(s, ",") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
