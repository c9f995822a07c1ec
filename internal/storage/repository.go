package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"riepilogo/internal/core"
	"riepilogo/internal/store"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Amounts are stored as decimal text and summed in Go so no precision is
// lost to SQLite's floating point arithmetic.
const (
	listExpensesSQL = `SELECT id, title, amount, category, date FROM expenses ORDER BY id`
	periodRowsSQL   = `SELECT amount, category FROM expenses WHERE substr(date, 1, 7) = ? ORDER BY id`
	insertSQL       = `INSERT INTO expenses (title, amount, category, date) VALUES (?, ?, ?, ?)`
	updateSQL       = `UPDATE expenses SET title = ?, amount = ?, category = ?, date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	deleteSQL       = `DELETE FROM expenses WHERE id = ?`
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListExpenses implements store.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, listExpensesSQL)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			id                      int64
			title, amount, category string
			date                    string
		)
		if err := rows.Scan(&id, &title, &amount, &category, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := toExpense(id, title, amount, category, date)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Create implements store.ExpenseWriter
func (r *SQLiteRepository) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	res, err := r.db.ExecContext(ctx, insertSQL, e.Title, e.Amount.String(), e.Category, e.Date.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("read expense id: %w", err)
	}
	e.ID = strconv.FormatInt(id, 10)

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"title", e.Title,
		"amount", e.Amount.String(),
		"category", e.Category,
		"date", e.Date.String())

	return e, nil
}

// Update implements store.ExpenseWriter
func (r *SQLiteRepository) Update(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	rowID, err := parseID(id)
	if err != nil {
		return core.Expense{}, err
	}
	res, err := r.db.ExecContext(ctx, updateSQL, e.Title, e.Amount.String(), e.Category, e.Date.String(), rowID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, err)
	}
	if err := expectOneRow(res, id); err != nil {
		return core.Expense{}, err
	}
	e.ID = id
	return e, nil
}

// Delete implements store.ExpenseWriter
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, deleteSQL, rowID)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if err := expectOneRow(res, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

// MonthTotal implements store.PeriodReader
func (r *SQLiteRepository) MonthTotal(ctx context.Context, p core.Period) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.eachInPeriod(ctx, p, func(amount decimal.Decimal, _ string) {
		total = total.Add(amount)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("get month total: %w", err)
	}
	return total, nil
}

// CategoryTotals implements store.PeriodReader. Categories are returned in
// the order of their first expense.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, p core.Period) ([]core.CategoryTotal, error) {
	index := map[string]int{}
	var out []core.CategoryTotal
	err := r.eachInPeriod(ctx, p, func(amount decimal.Decimal, category string) {
		i, ok := index[category]
		if !ok {
			i = len(out)
			index[category] = i
			out = append(out, core.CategoryTotal{Category: category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(amount)
	})
	if err != nil {
		return nil, fmt.Errorf("get category sums: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) eachInPeriod(ctx context.Context, p core.Period, fn func(decimal.Decimal, string)) error {
	rows, err := r.db.QueryContext(ctx, periodRowsSQL, p.String())
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var amount, category string
		if err := rows.Scan(&amount, &category); err != nil {
			return err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("stored amount %q: %w", amount, err)
		}
		fn(d, category)
	}
	return rows.Err()
}

func toExpense(id int64, title, amount, category, date string) (core.Expense, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d amount %q: %w", id, amount, err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, err)
	}
	return core.Expense{
		ID:       strconv.FormatInt(id, 10),
		Title:    title,
		Amount:   a,
		Category: category,
		Date:     d,
	}, nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expense id %q: %w", id, store.ErrNotFound)
	}
	return n, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", id, store.ErrNotFound)
	}
	return nil
}

var _ store.Store = (*SQLiteRepository)(nil)
