package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UncategorizedLabel replaces an empty category label in aggregates.
const UncategorizedLabel = "Uncategorized"

// CategoryTotal is the summed amount of every expense sharing one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// PeriodSummary is the total and per-category breakdown for one month.
// Total always equals the sum of Categories.
type PeriodSummary struct {
	Period     Period          `json:"period"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// SumCategories adds up the category totals at full precision.
func SumCategories(cats []CategoryTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range cats {
		sum = sum.Add(c.Total)
	}
	return sum
}

// Verify checks the total against the category breakdown.
func (s PeriodSummary) Verify() error {
	if sum := SumCategories(s.Categories); !sum.Equal(s.Total) {
		return fmt.Errorf("%w: %s total %s, categories sum %s", ErrInconsistentTotals, s.Period, s.Total, sum)
	}
	return nil
}

// IsEmpty reports whether the period has no expenses at all.
func (s PeriodSummary) IsEmpty() bool {
	return len(s.Categories) == 0
}
