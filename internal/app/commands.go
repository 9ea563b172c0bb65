package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// markReadResultMsg carries the outcome of a mark-read request.
type markReadResultMsg struct {
	id    string
	count int
	err   error
}

// markAllReadResultMsg carries the outcome of a mark-all-read request.
type markAllReadResultMsg struct {
	changed int
	err     error
}

// deleteResultMsg carries the outcome of a delete request.
type deleteResultMsg struct {
	id  string
	err error
}

// navigatedMsg reports whether the detail page could be opened.
type navigatedMsg struct {
	url string
	err error
}

func pendingKey(op, id string) string {
	return op + ":" + id
}

// claim records an in-flight request and reports false when one with the
// same key is already pending.
func (m *Model) claim(op, id string) bool {
	k := pendingKey(op, id)
	if m.pending[k] {
		return false
	}
	m.pending[k] = true
	return true
}

// markRead returns a command that marks notification id read.
func (m *Model) markRead(id string) tea.Cmd {
	if !m.claim("read", id) {
		return nil
	}
	client := m.mutations
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		count, err := client.MarkRead(ctx, id)
		return markReadResultMsg{id: id, count: count, err: err}
	}
}

// markAllRead returns a command that marks every notification read.
func (m *Model) markAllRead() tea.Cmd {
	if !m.claim("all", "") {
		return nil
	}
	client := m.mutations
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		changed, err := client.MarkAllRead(ctx)
		return markAllReadResultMsg{changed: changed, err: err}
	}
}

// deleteNotification returns a command that deletes notification id.
func (m *Model) deleteNotification(id string) tea.Cmd {
	if !m.claim("delete", id) {
		return nil
	}
	client := m.mutations
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return deleteResultMsg{id: id, err: client.Delete(ctx, id)}
	}
}

// navigate returns a command that opens url in the user's browser.
func (m *Model) navigate(url string) tea.Cmd {
	open := m.opener
	return func() tea.Msg {
		return navigatedMsg{url: url, err: open(url)}
	}
}
