package report

import (
	"fmt"

	"riepilogo/internal/core"

	"github.com/shopspring/decimal"
)

// Export layout constants shared by every workbook writer.
const (
	ReportTitle     = "EXPENSE TRACKER REPORT"
	SummaryTitle    = "SUMMARY"
	SheetExpenses   = "Expenses"
	SheetSummary    = "Summary"
	GrandTotalLabel = "Total Expense"
	FileName        = "Expense_Report.xlsx"
)

var (
	ExpenseHeaders = []string{"Title", "Amount", "Category", "Date"}
	SummaryHeaders = []string{"Category", "Total Amount"}
)

type ExpenseRow struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     core.Date       `json:"date"`
}

type CategoryRow struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// Workbook is the export model: an expense table in input order and a
// category summary table in first-seen order. Categories are grouped on the
// exact label, so both tables show the same category strings.
type Workbook struct {
	Title      string          `json:"title"`
	Expenses   []ExpenseRow    `json:"expenses"`
	Categories []CategoryRow   `json:"categories"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Workbook assembles the export model over every expense given, regardless
// of period.
func (a *Assembler) Workbook(expenses []core.Expense) Workbook {
	wb := Workbook{
		Title:      ReportTitle,
		Expenses:   make([]ExpenseRow, 0, len(expenses)),
		Categories: []CategoryRow{},
		GrandTotal: decimal.Zero,
	}
	index := map[string]int{}
	for _, e := range expenses {
		wb.Expenses = append(wb.Expenses, ExpenseRow{
			Title:    e.Title,
			Amount:   e.Amount,
			Category: e.Category,
			Date:     e.Date,
		})
		i, ok := index[e.Category]
		if !ok {
			i = len(wb.Categories)
			index[e.Category] = i
			wb.Categories = append(wb.Categories, CategoryRow{Category: e.Category, Total: decimal.Zero})
		}
		wb.Categories[i].Total = wb.Categories[i].Total.Add(e.Amount)
		wb.GrandTotal = wb.GrandTotal.Add(e.Amount)
	}
	return wb
}

// ExpenseSum re-sums the expense table.
func (w Workbook) ExpenseSum() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range w.Expenses {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// CategorySum re-sums the category summary table.
func (w Workbook) CategorySum() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range w.Categories {
		sum = sum.Add(r.Total)
	}
	return sum
}

// Verify checks that the grand total matches both tables.
func (w Workbook) Verify() error {
	if cs := w.CategorySum(); !cs.Equal(w.GrandTotal) {
		return fmt.Errorf("%w: grand total %s, category table %s", core.ErrInconsistentTotals, w.GrandTotal, cs)
	}
	if es := w.ExpenseSum(); !es.Equal(w.GrandTotal) {
		return fmt.Errorf("%w: grand total %s, expense table %s", core.ErrInconsistentTotals, w.GrandTotal, es)
	}
	return nil
}
