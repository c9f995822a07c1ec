// Package core provides amount parsing and formatting utilities.
//
// Amounts are decimal.Decimal values kept at full precision; rounding to two
// fractional digits only happens when a value is formatted for display.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits shown to users.
const AmountPlaces = 2

// NoData is shown in place of a value that cannot be computed.
const NoData = "no data"

// ParseAmount coerces a store or user supplied string into a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit. Negative values and empty input are rejected.
//
// Examples:
//   ParseAmount("12.34")  -> 12.34, nil
//   ParseAmount("12,345") -> 12.345, nil
//   ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d rounded half away from zero to two places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// FormatOptional renders a nullable amount, falling back to NoData.
func FormatOptional(d decimal.NullDecimal) string {
	if !d.Valid {
		return NoData
	}
	return FormatAmount(d.Decimal)
}

// SameAtDisplayPrecision reports whether a and b round to the same value.
func SameAtDisplayPrecision(a, b decimal.Decimal) bool {
	return a.Round(AmountPlaces).Equal(b.Round(AmountPlaces))
}
