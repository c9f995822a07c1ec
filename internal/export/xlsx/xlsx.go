// Package xlsx renders an export workbook as an Excel file.
package xlsx

import (
	"fmt"
	"io"

	"riepilogo/internal/report"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the rendered file.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	titleRow  = 1
	headerRow = 2
	firstRow  = 3
	amountFmt = "#,##0.00"
)

// Render builds the two-sheet workbook. The caller owns the returned file
// and must Close it.
func Render(wb report.Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", report.SheetExpenses); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(report.SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := writeExpenses(f, st, wb); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, st, wb); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Write renders wb and streams it to w.
func Write(w io.Writer, wb report.Workbook) error {
	f, err := Render(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type styles struct {
	title, header, amount, total int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		st  styles
		err error
	)
	numFmt := amountFmt
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return st, fmt.Errorf("title style: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	if st.amount, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
	}); err != nil {
		return st, fmt.Errorf("amount style: %w", err)
	}
	if st.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &numFmt,
	}); err != nil {
		return st, fmt.Errorf("total style: %w", err)
	}
	return st, nil
}

func writeExpenses(f *excelize.File, st styles, wb report.Workbook) error {
	sheet := report.SheetExpenses
	if err := f.SetCellValue(sheet, cell("A", titleRow), wb.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell("A", titleRow), cell("A", titleRow), st.title); err != nil {
		return err
	}
	if err := writeHeader(f, st, sheet, report.ExpenseHeaders); err != nil {
		return err
	}
	for i, r := range wb.Expenses {
		row := firstRow + i
		values := []any{r.Title, r.Amount.InexactFloat64(), r.Category, r.Date.String()}
		if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
			return fmt.Errorf("expense row %d: %w", i, err)
		}
	}
	if n := len(wb.Expenses); n > 0 {
		if err := f.SetCellStyle(sheet, cell("B", firstRow), cell("B", firstRow+n-1), st.amount); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "D", 20)
}

func writeSummary(f *excelize.File, st styles, wb report.Workbook) error {
	sheet := report.SheetSummary
	if err := f.SetCellValue(sheet, cell("A", titleRow), report.SummaryTitle); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell("A", titleRow), cell("A", titleRow), st.title); err != nil {
		return err
	}
	if err := writeHeader(f, st, sheet, report.SummaryHeaders); err != nil {
		return err
	}
	for i, r := range wb.Categories {
		row := firstRow + i
		values := []any{r.Category, r.Total.InexactFloat64()}
		if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
			return fmt.Errorf("summary row %d: %w", i, err)
		}
	}
	if n := len(wb.Categories); n > 0 {
		if err := f.SetCellStyle(sheet, cell("B", firstRow), cell("B", firstRow+n-1), st.amount); err != nil {
			return err
		}
	}

	// Grand total sits beside the table header.
	if err := f.SetCellValue(sheet, cell("D", headerRow), report.GrandTotalLabel); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell("E", headerRow), wb.GrandTotal.InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell("D", headerRow), cell("E", headerRow), st.total); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "E", 18)
}

func writeHeader(f *excelize.File, st styles, sheet string, headers []string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, cell("A", headerRow), &values); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), headerRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell("A", headerRow), last, st.header)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
