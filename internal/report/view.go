// Package report turns comparisons into view models and expense lists into
// export workbooks.
package report

import (
	"context"

	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/summary"

	"github.com/shopspring/decimal"
)

// Direction labels for a delta.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// CategoryView is one category decorated for display.
type CategoryView struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Display  string          `json:"display"`
	Color    string          `json:"color"`
	Known    bool            `json:"known"`
}

// PeriodStats is the statistics block shown for one period.
type PeriodStats struct {
	Period         core.Period          `json:"period"`
	Label          string               `json:"label"`
	Total          decimal.Decimal      `json:"total"`
	TotalDisplay   string               `json:"total_display"`
	CategoryCount  int                  `json:"category_count"`
	Average        decimal.NullDecimal  `json:"average"`
	AverageDisplay string               `json:"average_display"`
	TopCategory    string               `json:"top_category,omitempty"`
	TopAmount      decimal.NullDecimal  `json:"top_amount"`
	TopDisplay     string               `json:"top_display"`
	HighestSpend   decimal.NullDecimal  `json:"highest_spend"`
	Categories     []core.CategoryTotal `json:"categories"`
	Styled         []CategoryView       `json:"styled"`
}

// ViewModel is what a presentation layer renders for one selection.
type ViewModel struct {
	Current         *PeriodStats        `json:"current,omitempty"`
	Previous        *PeriodStats        `json:"previous,omitempty"`
	DeltaPercent    decimal.NullDecimal `json:"delta_percent"`
	DeltaDisplay    string              `json:"delta_display"`
	Direction       string              `json:"direction,omitempty"`
	ComparisonError string              `json:"comparison_error,omitempty"`
	Error           string              `json:"error,omitempty"`
}

// Loaded reports whether the current period is available.
func (v ViewModel) Loaded() bool {
	return v.Current != nil
}

type Assembler struct {
	logger *log.Logger
}

func NewAssembler(logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.Discard()
	}
	return &Assembler{logger: logger.WithComponent(log.ComponentReport)}
}

// View builds the view model for a comparison outcome. A partial failure
// keeps the current block and reports the comparison error separately.
func (a *Assembler) View(ctx context.Context, cmp summary.Comparison, err error) ViewModel {
	vm := ViewModel{DeltaDisplay: core.NoData}
	if err != nil {
		pf, ok := core.IsPartialFailure(err)
		if !ok {
			vm.Error = err.Error()
			return vm
		}
		current := Stats(pf.Current)
		vm.Current = &current
		vm.ComparisonError = pf.Error()
		a.logger.DebugContext(ctx, "View built from partial comparison",
			log.NewFields().WithPeriod(pf.Current.Period).WithError(pf.Err).ToSlice()...)
		return vm
	}

	current := Stats(cmp.Current)
	vm.Current = &current
	if cmp.Previous != nil {
		previous := Stats(*cmp.Previous)
		vm.Previous = &previous
	}
	vm.DeltaPercent = cmp.DeltaPercent
	if cmp.DeltaPercent.Valid {
		vm.DeltaDisplay = FormatDelta(cmp.DeltaPercent.Decimal)
		vm.Direction = DirectionDecrease
		if cmp.Increase() {
			vm.Direction = DirectionIncrease
		}
	}
	return vm
}

// Stats computes the statistics block of one period summary.
func Stats(s core.PeriodSummary) PeriodStats {
	st := PeriodStats{
		Period:        s.Period,
		Label:         s.Period.Label(),
		Total:         s.Total,
		TotalDisplay:  core.FormatAmount(s.Total),
		CategoryCount: len(s.Categories),
		Average:       summary.AveragePerCategory(s),
		TopDisplay:    core.NoData,
		Categories:    s.Categories,
		Styled:        make([]CategoryView, 0, len(s.Categories)),
	}
	if st.Categories == nil {
		st.Categories = []core.CategoryTotal{}
	}
	st.AverageDisplay = core.FormatOptional(st.Average)
	if top, ok := summary.TopCategory(s.Categories); ok {
		st.TopCategory = top.Category
		st.TopAmount = decimal.NewNullDecimal(top.Total)
		st.HighestSpend = st.TopAmount
		st.TopDisplay = top.Category + " (" + core.FormatAmount(top.Total) + ")"
	}
	for _, c := range s.Categories {
		style := core.StyleFor(c.Category)
		st.Styled = append(st.Styled, CategoryView{
			Category: style.Label,
			Total:    c.Total,
			Display:  core.FormatAmount(c.Total),
			Color:    style.Color,
			Known:    style.Known,
		})
	}
	return st
}

// FormatDelta renders a delta with its sign and one decimal place, for
// example "+25.0%" or "-4.2%".
func FormatDelta(d decimal.Decimal) string {
	s := d.StringFixed(1)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}
