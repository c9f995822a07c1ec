package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"riepilogo/internal/core"
	"riepilogo/internal/report"
)

// barWidth is the cell count of the largest category bar.
const barWidth = 24

// RenderStats draws one period's statistics block with a bar per category
// in the category's color.
func RenderStats(s report.PeriodStats) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(s.Label))
	b.WriteString("\n")
	b.WriteString(row("Total", s.TotalDisplay))
	b.WriteString(row("Categories", fmt.Sprintf("%d", s.CategoryCount)))
	b.WriteString(row("Average", s.AverageDisplay))
	b.WriteString(labelStyle.Render("Top category") + s.TopDisplay + "\n")

	if len(s.Styled) > 0 {
		b.WriteString("\n")
		peak := s.Styled[0].Total
		for _, c := range s.Styled[1:] {
			if c.Total.GreaterThan(peak) {
				peak = c.Total
			}
		}
		for _, c := range s.Styled {
			width := 0
			if peak.IsPositive() {
				width = int(c.Total.Mul(decimal.NewFromInt(barWidth)).Div(peak).Round(0).IntPart())
			}
			if width == 0 && c.Total.IsPositive() {
				width = 1
			}
			bar := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(strings.Repeat("█", width))
			b.WriteString(labelStyle.Render(c.Category))
			b.WriteString(amountStyle.Render(c.Display))
			b.WriteString(" ")
			b.WriteString(bar)
			b.WriteString("\n")
		}
	}
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderView draws a comparison view: the current period, the previous one
// when present and the delta line.
func RenderView(vm report.ViewModel) string {
	if vm.Error != "" {
		return ErrorStyle.Render("error: " + vm.Error)
	}
	if vm.Current == nil {
		return SubtleStyle.Render(core.NoData)
	}

	blocks := []string{RenderStats(*vm.Current)}
	if vm.Previous != nil {
		blocks = append(blocks, RenderStats(*vm.Previous))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)

	var footer string
	switch {
	case vm.ComparisonError != "":
		footer = WarningStyle.Render("comparison unavailable: " + vm.ComparisonError)
	case vm.Previous == nil:
		footer = ""
	default:
		footer = "Change: " + RenderDelta(vm)
	}
	if footer == "" {
		return out
	}
	return lipgloss.JoinVertical(lipgloss.Left, out, footer)
}

// RenderDelta colors the delta by direction.
func RenderDelta(vm report.ViewModel) string {
	switch vm.Direction {
	case report.DirectionIncrease:
		return lipgloss.NewStyle().Foreground(IncreaseColor).Render("▲ " + vm.DeltaDisplay)
	case report.DirectionDecrease:
		return lipgloss.NewStyle().Foreground(DecreaseColor).Render("▼ " + vm.DeltaDisplay)
	default:
		return SubtleStyle.Render(vm.DeltaDisplay)
	}
}

func row(label, value string) string {
	return labelStyle.Render(label) + amountStyle.Render(value) + "\n"
}
