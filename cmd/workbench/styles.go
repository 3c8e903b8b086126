package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// TabStyle for inactive view tabs.
	TabStyle = lipgloss.NewStyle().Faint(true)

	// ActiveTabStyle for the foregrounded view tab.
	ActiveTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// StatusStyle for the transient status line.
	StatusStyle = lipgloss.NewStyle().Faint(true)
)

// FormatMoney renders a monetary value with a sign indicator.
func FormatMoney(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.2f", value)
	}

	return fmt.Sprintf("%.2f", value)
}
