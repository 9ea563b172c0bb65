// Package alert shows a blocking message that any key dismisses.
package alert

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notification-center/internal/theme"
)

// Model holds at most one pending message.
type Model struct {
	message string
}

// Show replaces the pending message.
func (m *Model) Show(message string) {
	m.message = message
}

// Dismiss clears the pending message.
func (m *Model) Dismiss() {
	m.message = ""
}

// Active reports whether a message is pending.
func (m Model) Active() bool {
	return m.message != ""
}

// Message returns the pending message.
func (m Model) Message() string {
	return m.message
}

// View renders the alert centered in a width x height area.
func (m Model) View(width, height int) string {
	if !m.Active() {
		return ""
	}

	box := theme.AlertStyle.Render(lipgloss.JoinVertical(
		lipgloss.Center,
		m.message,
		"",
		theme.HelpStyle.Render("press any key"),
	))

	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
