package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notification-center/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the header bar and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps the notification dropdown.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// AlertStyle wraps blocking alerts.
var AlertStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.DoubleBorder()).
	BorderForeground(ColorRed)

// BadgeStyle draws the unread count next to the bell.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(ColorRed).
	Padding(0, 1)

// BellStyle draws the trigger. BellActiveStyle is used while unread
// notifications exist.
var (
	BellStyle       = lipgloss.NewStyle().Foreground(ColorWhite)
	BellActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// UnreadItemStyle emphasizes unread items.
var UnreadItemStyle = lipgloss.NewStyle().Bold(true)

// UnreadMarkerStyle draws the dot in front of unread items.
var UnreadMarkerStyle = lipgloss.NewStyle().Foreground(ColorRed)

// RemovingItemStyle renders an item during its removal transition.
var RemovingItemStyle = lipgloss.NewStyle().
	PaddingLeft(2).
	Faint(true).
	Strikethrough(true)

// TimestampStyle renders the pre-formatted date of a notification.
var TimestampStyle = lipgloss.NewStyle().Foreground(ColorGray)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SectionTitleStyle heads a group of bindings in the help overlay.
var SectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)

// ErrorStyle renders inline error views.
var ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

// CategoryStyle returns a color-coded style for a notification category.
func CategoryStyle(c model.Category) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch c {
	case model.CategoryCorrection:
		return base.Foreground(ColorYellow)
	case model.CategoryBirth:
		return base.Foreground(ColorMagenta)
	case model.CategorySystem:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}
