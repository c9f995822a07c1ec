// Package store defines the contract the engine consumes from an expense
// store. Implementations live in subpackages and in internal/storage.
package store

import (
	"context"
	"errors"

	"riepilogo/internal/core"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by Update and Delete for an unknown expense id.
var ErrNotFound = errors.New("expense not found")

// Ports for outbound adapters.
type (
	// ExpenseLister returns every stored expense.
	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	// ExpenseWriter persists expenses. The store assigns ids.
	ExpenseWriter interface {
		Create(ctx context.Context, e core.Expense) (core.Expense, error)
		Update(ctx context.Context, id string, e core.Expense) (core.Expense, error)
		Delete(ctx context.Context, id string) error
	}

	// PeriodReader provides the two aggregate reads for one month.
	PeriodReader interface {
		// MonthTotal returns the sum of all amounts dated in the period.
		MonthTotal(ctx context.Context, p core.Period) (decimal.Decimal, error)
		// CategoryTotals returns one entry per category present in the period.
		CategoryTotals(ctx context.Context, p core.Period) ([]core.CategoryTotal, error)
	}

	Store interface {
		ExpenseLister
		ExpenseWriter
		PeriodReader
	}
)
