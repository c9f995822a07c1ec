package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riepilogo/internal/core"
)

const seed = `[
  {"title": "Groceries", "amount": "300", "category": "Food", "date": "2025-03-02"},
  {"title": "Train", "amount": "200", "category": "Travel", "date": "2025-03-10"},
  {"title": "Dinner", "amount": "400", "category": "Food", "date": "2025-02-14"},
  {"title": "Gift", "amount": "40", "category": "Entertainment", "date": "2024-12-20"}
]`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--seed-file", writeSeed(t)}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary", "--year", "2025", "--month", "3", "--json")
	require.NoError(t, err)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "March 2025", stats["label"])
	assert.Equal(t, "500.00", stats["total_display"])
	assert.Equal(t, "250.00", stats["average_display"])
	assert.Equal(t, "Food (300.00)", stats["top_display"])
}

func TestSummaryCommandRendered(t *testing.T) {
	out, err := run(t, "summary", "--year", "2025", "--month", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "500.00")
}

func TestCompareCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDelta string
		wantDir   string
	}{
		{"march over february", []string{"--year", "2025", "--month", "3"}, "+25.0%", "increase"},
		{"january rolls back to december", []string{"--year", "2025", "--month", "1"}, "-100.0%", "decrease"},
		{"current only", []string{"--year", "2025", "--month", "3", "--no-previous"}, core.NoData, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"compare", "--json"}, tt.args...)...)
			require.NoError(t, err)

			var vm map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &vm))
			assert.Equal(t, tt.wantDelta, vm["delta_display"])
			if tt.wantDir == "" {
				assert.NotContains(t, vm, "direction")
			} else {
				assert.Equal(t, tt.wantDir, vm["direction"])
			}
		})
	}
}

func TestCompareRejectsInvalidPeriod(t *testing.T) {
	_, err := run(t, "compare", "--year", "2025", "--month", "13")
	var ve *core.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, "month", ve.Field)

	_, err = run(t, "summary", "--year", "25", "--month", "3")
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, "year", ve.Field)
}

func TestExpensesList(t *testing.T) {
	out, err := run(t, "expenses", "list", "--year", "2025", "--month", "3", "--json")
	require.NoError(t, err)
	var march []core.Expense
	require.NoError(t, json.Unmarshal([]byte(out), &march))
	assert.Len(t, march, 2)

	out, err = run(t, "expenses", "list", "--all", "--json")
	require.NoError(t, err)
	var all []core.Expense
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 4)

	out, err = run(t, "expenses", "list", "--year", "2023", "--month", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "no expenses")
}

func TestExpensesListCategory(t *testing.T) {
	out, err := run(t, "expenses", "list", "--all", "--category", "Food", "--json")
	require.NoError(t, err)
	var food []core.Expense
	require.NoError(t, json.Unmarshal([]byte(out), &food))
	require.Len(t, food, 2)
	for _, e := range food {
		assert.Equal(t, "Food", e.Category)
	}

	out, err = run(t, "expenses", "list", "--year", "2025", "--month", "3", "--category", "Food", "--json")
	require.NoError(t, err)
	var march []core.Expense
	require.NoError(t, json.Unmarshal([]byte(out), &march))
	require.Len(t, march, 1)
	assert.Equal(t, "Groceries", march[0].Title)

	out, err = run(t, "expenses", "list", "--all", "--category", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "no expenses")
}

func TestExpensesAdd(t *testing.T) {
	out, err := run(t, "expenses", "add", "--title", "Taxi", "--amount", "12,50", "--category", "Travel", "--date", "2025-03-03")
	require.NoError(t, err)
	assert.Contains(t, out, "12.50 Travel (2025-03-03)")

	_, err = run(t, "expenses", "add", "--title", "Taxi", "--amount", "-1", "--category", "Travel")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := run(t, "export", "xlsx", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportSheetsRequiresBroker(t *testing.T) {
	t.Setenv("RIEPILOGO_AMQP_URL", "")
	_, err := run(t, "export", "sheets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amqp url not configured")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "summary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestBackendFromEnvironment(t *testing.T) {
	t.Setenv("RIEPILOGO_BACKEND", "bogus")
	_, err := run(t, "summary", "--year", "2025", "--month", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestPeriodFlags(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	p, err := (&periodFlags{}).period(now)
	require.NoError(t, err)
	assert.Equal(t, core.NewPeriod(2025, 3), p)

	p, err = (&periodFlags{month: 11}).period(now)
	require.NoError(t, err)
	assert.Equal(t, core.NewPeriod(2025, 11), p)

	_, err = (&periodFlags{month: -1}).period(now)
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}

func TestBuildExpense(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	e, err := buildExpense("Lunch", "9.99", "Food", "", now)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2025, 3, 15), e.Date)
	assert.Equal(t, "9.99", e.Amount.String())

	_, err = buildExpense("", "1", "Food", "", now)
	assert.ErrorIs(t, err, core.ErrEmptyTitle)

	_, err = buildExpense("Lunch", "1", "Food", "15/03/2025", now)
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}
