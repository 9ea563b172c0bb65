// Package dropdown is the open/closed state machine of the notification
// panel.
package dropdown

// State of the panel.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Machine tracks the panel state. The zero value is Closed.
type Machine struct {
	state State
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// IsOpen reports whether the panel is shown.
func (m *Machine) IsOpen() bool {
	return m.state == Open
}

// Toggle flips the state and reports whether the machine entered Open.
func (m *Machine) Toggle() bool {
	if m.state == Open {
		m.state = Closed
		return false
	}
	m.state = Open
	return true
}

// Dismiss closes the panel. It reports whether the state changed.
func (m *Machine) Dismiss() bool {
	if m.state != Open {
		return false
	}
	m.state = Closed
	return true
}
