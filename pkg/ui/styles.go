package ui

import "github.com/charmbracelet/lipgloss"

// Semantic styles for terminal output. Colors adapt to light and dark
// backgrounds.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"})

	LabelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9B9B9B"})

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#ECECEC"})

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"})

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"})

	CodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AD1457", Dark: "#F06292"})
)
