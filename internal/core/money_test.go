package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{" 12,345 ", "12.345", true},
		{"0", "0", true},
		{"100", "100", true},
		{"", "", false},
		{"abc", "", false},
		{"-1", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tc.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("ParseAmount(%q) expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":       "0.00",
		"12.5":    "12.50",
		"19.999":  "20.00",
		"0.005":   "0.01",
		"1234.56": "1234.56",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatAmount(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestFormatOptional(t *testing.T) {
	if got := FormatOptional(decimal.NullDecimal{}); got != NoData {
		t.Fatalf("expected %q, got %q", NoData, got)
	}
	v := decimal.NewNullDecimal(decimal.RequireFromString("3.333"))
	if got := FormatOptional(v); got != "3.33" {
		t.Fatalf("expected 3.33, got %q", got)
	}
}

func TestSameAtDisplayPrecision(t *testing.T) {
	a := decimal.RequireFromString("10.001")
	b := decimal.RequireFromString("10.004")
	if !SameAtDisplayPrecision(a, b) {
		t.Fatalf("expected %s and %s to match at 2 places", a, b)
	}
	if SameAtDisplayPrecision(a, decimal.RequireFromString("10.01")) {
		t.Fatalf("expected mismatch")
	}
}
