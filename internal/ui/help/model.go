// Package help draws the key reference shown over the notification panel.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notification-center/internal/keys"
	"github.com/nhle/notification-center/internal/theme"
)

// section is one titled group of bindings in the overlay.
type section struct {
	title    string
	bindings []key.Binding
}

// Model is the help overlay. Bindings switched off because the page lacks
// the matching element are listed separately as unavailable.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a help overlay for km.
func New(km *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{keys: km, help: h, width: width, height: height}
}

// ShortView renders the one-line key hints for the status bar.
func (m Model) ShortView() string {
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

var sectionTitles = []string{"Panel", "Notificaciones", "General"}

// sections pairs the key map's groups with their titles.
func (m Model) sections() []section {
	groups := m.keys.FullHelp()
	out := make([]section, 0, len(groups))
	for i, g := range groups {
		title := ""
		if i < len(sectionTitles) {
			title = sectionTitles[i]
		}
		out = append(out, section{title: title, bindings: g})
	}
	return out
}

// View renders the overlay.
func (m Model) View() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	blocks := []string{heading.MarginBottom(1).Render("Atajos de teclado")}
	var unavailable []string
	for _, s := range m.sections() {
		var enabled []key.Binding
		for _, b := range s.bindings {
			if b.Enabled() {
				enabled = append(enabled, b)
			} else {
				unavailable = append(unavailable, b.Help().Desc)
			}
		}
		if len(enabled) == 0 {
			continue
		}
		blocks = append(blocks,
			theme.SectionTitleStyle.Render(s.title),
			m.help.FullHelpView([][]key.Binding{enabled}),
			"",
		)
	}
	if len(unavailable) > 0 {
		blocks = append(blocks, theme.HelpStyle.Render("No disponible en esta página: "+strings.Join(unavailable, ", ")))
	}

	style := theme.PanelStyle.Padding(1, 2)
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
