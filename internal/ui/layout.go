package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notification-center/internal/theme"
)

// Layout manages the terminal layout dimensions: a header carrying the bell,
// a content area where the dropdown panel hangs from the right edge, and a
// status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// MaxPanelWidth caps the dropdown width on wide terminals.
const MaxPanelWidth = 64

// panelChromeTop is the number of panel lines above the first list line:
// the top border and the title row.
const panelChromeTop = 2

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// PanelWidth returns the outer width of the dropdown panel.
func (l Layout) PanelWidth() int {
	if l.Width < MaxPanelWidth {
		return l.Width
	}
	return MaxPanelWidth
}

// PanelInnerWidth returns the width available to the panel content.
func (l Layout) PanelInnerWidth() int {
	w := l.PanelWidth() - 4
	if w < 0 {
		return 0
	}
	return w
}

// RenderHeader renders the top header bar with a title on the left and the
// bell on the right.
func (l Layout) RenderHeader(title string, bell string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	bellRendered := theme.HeaderStyle.Render(bell)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(bellRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		bellRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderPanel frames the dropdown and hangs it from the right edge of the
// content area.
func (l Layout) RenderPanel(title string, body string) string {
	panel := theme.PanelStyle.
		Width(l.PanelWidth() - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))

	return lipgloss.PlaceHorizontal(l.Width, lipgloss.Right, panel)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	body := lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		statusBar,
	)
}

// BellHit reports whether the cell (x, y) lies on the bell, which occupies
// the last bellWidth columns of the header.
func (l Layout) BellHit(x, y, bellWidth int) bool {
	return y < l.HeaderHeight && x >= l.Width-bellWidth
}

// PanelHit reports whether (x, y) lies inside a panel of the given height
// and, when it does, the line offset into the panel's list.
func (l Layout) PanelHit(x, y, panelHeight int) (int, bool) {
	top := l.HeaderHeight
	left := l.Width - l.PanelWidth()
	if x < left || y < top || y >= top+panelHeight {
		return 0, false
	}
	return y - top - panelChromeTop, true
}
