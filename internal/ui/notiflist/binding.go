package notiflist

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notification-center/internal/keys"
	"github.com/nhle/notification-center/internal/model"
)

// ActionKind is what a key press on the list asks the center to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionMarkRead
	ActionDelete
)

// Action is the result of the binding step.
type Action struct {
	Kind         ActionKind
	Notification model.Notification
	Target       string
}

// HandleKey maps a key press onto an action for the selected element.
// Cursor movement is handled here and yields ActionNone.
func (m *Model) HandleKey(msg tea.KeyMsg, km *keys.KeyMap) Action {
	switch {
	case key.Matches(msg, km.Up):
		m.MoveUp()
		return Action{}
	case key.Matches(msg, km.Down):
		m.MoveDown()
		return Action{}
	}

	el, ok := m.selectedElement()
	if !ok || el.Removing {
		return Action{}
	}
	n, _ := m.Selected()

	switch {
	case key.Matches(msg, km.Open):
		return Action{Kind: ActionNavigate, Notification: n, Target: el.Target}
	case key.Matches(msg, km.MarkRead):
		if !el.Unread {
			return Action{}
		}
		return Action{Kind: ActionMarkRead, Notification: n}
	case key.Matches(msg, km.Delete):
		if !el.Deletable {
			return Action{}
		}
		return Action{Kind: ActionDelete, Notification: n}
	}
	return Action{}
}

// Click selects the element under line and returns the navigate action.
func (m *Model) Click(line int) Action {
	i := m.ItemAt(line)
	if i < 0 || !m.Select(i) {
		return Action{}
	}
	el, ok := m.selectedElement()
	if !ok || el.Removing {
		return Action{}
	}
	n, _ := m.Selected()
	return Action{Kind: ActionNavigate, Notification: n, Target: el.Target}
}

func (m *Model) selectedElement() (Element, bool) {
	tree := m.Tree()
	if tree.Kind != KindItems {
		return Element{}, false
	}
	for _, el := range tree.Elements {
		if el.Selected {
			return el, true
		}
	}
	return Element{}, false
}
