package summary

import (
	"testing"

	"riepilogo/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cats(pairs ...[2]string) []core.CategoryTotal {
	out := make([]core.CategoryTotal, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, core.CategoryTotal{Category: p[0], Total: dec(p[1])})
	}
	return out
}

func TestTopCategoryFirstSeenTieBreak(t *testing.T) {
	top, ok := TopCategory(cats(cat("A", "30"), cat("B", "30"), cat("C", "10")))
	require.True(t, ok)
	assert.Equal(t, "A", top.Category)

	top, ok = TopCategory(cats(cat("A", "10"), cat("B", "30.01"), cat("C", "30.01")))
	require.True(t, ok)
	assert.Equal(t, "B", top.Category)

	_, ok = TopCategory(nil)
	assert.False(t, ok)
}

func TestAveragePerCategory(t *testing.T) {
	avg := AveragePerCategory(core.PeriodSummary{Total: decimal.Zero})
	assert.False(t, avg.Valid, "empty categories must yield no data, not zero")
	assert.Equal(t, core.NoData, core.FormatOptional(avg))

	s := core.PeriodSummary{Total: dec("100"), Categories: cats(cat("A", "40"), cat("B", "30"), cat("C", "30"))}
	avg = AveragePerCategory(s)
	require.True(t, avg.Valid)
	assert.Equal(t, "33.33", core.FormatAmount(avg.Decimal))
}

func TestDeltaPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     string
		valid    bool
		increase bool
	}{
		{"increase", "500", "400", "25", true, true},
		{"decrease", "300", "400", "-25", true, false},
		{"unchanged", "400", "400", "0", true, false},
		{"rounds to one place", "100", "300", "-66.7", true, false},
		{"tiny change rounds to zero", "1000.1", "1000", "0", true, false},
		{"zero previous", "100", "0", "", false, false},
		{"from zero to zero", "0", "0", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DeltaPercent(dec(tt.current), dec(tt.previous))
			assert.Equal(t, tt.valid, d.Valid)
			if tt.valid {
				assertDecimal(t, tt.want, d.Decimal)
			}
			assert.Equal(t, tt.increase, IsIncrease(d))
		})
	}
}
