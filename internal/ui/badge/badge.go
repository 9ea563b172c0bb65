// Package badge turns the unread count into what the header shows.
package badge

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notification-center/internal/theme"
)

// Overflow is the label shown for counts above MaxExact.
const (
	MaxExact = 99
	Overflow = "99+"
)

// Bell is the trigger glyph.
const Bell = "🔔"

// State is the presentation of an unread count.
type State struct {
	// Label is the text inside the badge.
	Label string

	// Hidden is true when there is nothing unread.
	Hidden bool

	// Marker is true when the trigger should be highlighted.
	Marker bool
}

// Present maps count onto its badge state. Negative counts are treated as 0.
func Present(count int) State {
	if count <= 0 {
		return State{Label: "0", Hidden: true}
	}
	label := strconv.Itoa(count)
	if count > MaxExact {
		label = Overflow
	}
	return State{Label: label, Marker: true}
}

// View renders the bell and, unless hidden, the badge. showBadge is false
// when the page provides no badge binding.
func View(s State, showBadge bool) string {
	bell := theme.BellStyle.Render(Bell)
	if s.Marker {
		bell = theme.BellActiveStyle.Render(Bell)
	}
	if !showBadge || s.Hidden {
		return bell
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, bell, " ", theme.BadgeStyle.Render(s.Label))
}
