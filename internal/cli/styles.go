package cli

import "github.com/charmbracelet/lipgloss"

var (
	// AccentColor is the main theme color.
	AccentColor = lipgloss.Color("#45B7D1")
	// IncreaseColor marks spending that went up.
	IncreaseColor = lipgloss.Color("#FF6B6B")
	// DecreaseColor marks spending that went down.
	DecreaseColor = lipgloss.Color("#4ECDC4")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(IncreaseColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Width(18)

	amountStyle = lipgloss.NewStyle().
			Width(14).
			Align(lipgloss.Right)
)
