package summary

import (
	"riepilogo/internal/core"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TopCategory returns the category with the largest total. On exact ties the
// earliest entry wins. ok is false for an empty list.
func TopCategory(cats []core.CategoryTotal) (top core.CategoryTotal, ok bool) {
	for i, c := range cats {
		if i == 0 || c.Total.GreaterThan(top.Total) {
			top = c
		}
	}
	return top, len(cats) > 0
}

// AveragePerCategory is total divided by the number of categories, or an
// invalid NullDecimal when there are none.
func AveragePerCategory(s core.PeriodSummary) decimal.NullDecimal {
	if len(s.Categories) == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(s.Total.Div(decimal.NewFromInt(int64(len(s.Categories)))))
}

// DeltaPercent is (current - previous) / previous * 100 rounded to one
// decimal place. It is invalid when previous is zero.
func DeltaPercent(current, previous decimal.Decimal) decimal.NullDecimal {
	if previous.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(current.Sub(previous).Div(previous).Mul(hundred).Round(1))
}

// IsIncrease reports whether a delta is strictly positive. A missing or
// zero delta is not an increase.
func IsIncrease(delta decimal.NullDecimal) bool {
	return delta.Valid && delta.Decimal.IsPositive()
}
