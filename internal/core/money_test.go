package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"0.01", "0.01", true},
		{"$350", "350", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"1,23", "", false},
		{"1,200", "", false},
		{"$3,000.50", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseDecimalAllowsZero(t *testing.T) {
	got, err := ParseDecimal("0")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero, got %s (err=%v)", got, err)
	}
}

func TestParseDecimalRejectsComma(t *testing.T) {
	for _, in := range []string{"1,5", "1,200", "0,0"} {
		if _, err := ParseDecimal(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(350), decimal.NewFromInt(400))
	if !got.Equal(decimal.RequireFromString("87.5")) {
		t.Fatalf("expected 87.5, got %s", got)
	}
	if !Percent(decimal.NewFromInt(5), decimal.Zero).IsZero() {
		t.Fatalf("expected zero for zero whole")
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("3.5")); got != "3.50" {
		t.Fatalf("expected 3.50, got %s", got)
	}
}
