package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Base palette — dark terminal with the Games' gold as the accent.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c6b065")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c6b065")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c6b065"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))
)

// statusColors maps ticket/payment statuses to their display style.
var statusColors = map[string]lipgloss.Style{
	"VALID":     successStyle,
	"PAID":      successStyle,
	"USED":      metaStyle,
	"SCANNED":   metaStyle,
	"PENDING":   warnStyle,
	"FAILED":    errorStyle,
	"CANCELLED": errorStyle,
}

// StatusStyle returns the style for a ticket or payment status.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusColors[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return s
	}
	return dimStyle
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
