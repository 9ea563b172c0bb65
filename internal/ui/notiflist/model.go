// Package notiflist is the cached notification list of the dropdown panel:
// a four-state cache, a pure render step, and the key binding step.
package notiflist

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/service"
	"github.com/nhle/notification-center/internal/theme"
)

// RemovalDelay is how long a deleted item stays on screen, faded, before it
// is removed.
const RemovalDelay = 300 * time.Millisecond

// DefaultPageSize is used when a non-positive page size is configured.
const DefaultPageSize = 10

// ElementHeight is the number of lines one drawn item occupies.
const ElementHeight = 3

// Lister fetches a page of notifications.
type Lister interface {
	List(ctx context.Context, limit int) (*service.ListResult, error)
}

// LoadedMsg is sent when a list request completes.
type LoadedMsg struct {
	Gen         uint64
	Items       []model.Notification
	UnreadCount int
	Err         error
}

// RemovalDoneMsg is sent when the removal transition of an item ends.
type RemovalDoneMsg struct {
	ID string
}

// Model is the notification list component.
type Model struct {
	cache       Cache
	lister      Lister
	pageSize    int
	detailRoute string
	selected    int
	removing    map[string]bool
	spinner     spinner.Model
	width       int
	timeout     time.Duration
	logger      zerolog.Logger
}

// New creates a list model.
func New(lister Lister, pageSize int, detailRoute string, timeout time.Duration, logger zerolog.Logger) Model {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.HelpStyle

	return Model{
		lister:      lister,
		pageSize:    pageSize,
		detailRoute: detailRoute,
		removing:    make(map[string]bool),
		spinner:     sp,
		width:       60,
		timeout:     timeout,
		logger:      logger.With().Str("component", "notiflist").Logger(),
	}
}

// State returns the cache state.
func (m *Model) State() CacheState {
	return m.cache.State()
}

// Items returns the cached items.
func (m *Model) Items() []model.Notification {
	return m.cache.Items()
}

// Load starts a list request unless the cache is loaded or a request is
// already in flight, in which case it returns nil. The cache enters Loading
// before the command is returned.
func (m *Model) Load() tea.Cmd {
	gen, ok := m.cache.Begin()
	if !ok {
		return nil
	}

	lister := m.lister
	limit := m.pageSize
	timeout := m.timeout
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := lister.List(ctx, limit)
		if err != nil {
			return LoadedMsg{Gen: gen, Err: err}
		}
		return LoadedMsg{Gen: gen, Items: res.Notifications, UnreadCount: res.UnreadCount}
	}

	return tea.Batch(fetch, m.spinner.Tick)
}

// Apply stores the outcome of a list request. It returns false when the
// result belongs to an invalidated generation and was dropped.
func (m *Model) Apply(msg LoadedMsg) bool {
	if msg.Err != nil {
		if !m.cache.Fail(msg.Gen, msg.Err) {
			return false
		}
		m.logger.Warn().Err(msg.Err).Msg("loading notification list")
		return true
	}

	if !m.cache.Resolve(msg.Gen, msg.Items) {
		m.logger.Debug().Uint64("gen", msg.Gen).Msg("dropping stale list response")
		return false
	}
	m.removing = make(map[string]bool)
	m.clampSelection()
	return true
}

// Invalidate marks the cache stale so the next Load fetches again.
func (m *Model) Invalidate() {
	m.cache.Invalidate()
}

// MarkRead flips item id to read locally.
func (m *Model) MarkRead(id string) bool {
	return m.cache.MarkRead(id)
}

// MarkAllRead flips every cached item to read locally.
func (m *Model) MarkAllRead() {
	m.cache.MarkAllRead()
}

// BeginRemoval starts the removal transition of item id.
func (m *Model) BeginRemoval(id string) tea.Cmd {
	if _, ok := m.cache.Find(id); !ok {
		return nil
	}
	m.removing[id] = true
	return tea.Tick(RemovalDelay, func(time.Time) tea.Msg {
		return RemovalDoneMsg{ID: id}
	})
}

// FinishRemoval drops item id after its transition.
func (m *Model) FinishRemoval(id string) bool {
	delete(m.removing, id)
	removed := m.cache.Remove(id)
	m.clampSelection()
	return removed
}

// Removing reports whether item id is in its removal transition.
func (m *Model) Removing(id string) bool {
	return m.removing[id]
}

// Selected returns the notification under the cursor.
func (m *Model) Selected() (model.Notification, bool) {
	items := m.cache.Items()
	if m.selected < 0 || m.selected >= len(items) {
		return model.Notification{}, false
	}
	return items[m.selected], true
}

// SelectedIndex returns the cursor position.
func (m *Model) SelectedIndex() int {
	return m.selected
}

// MoveUp moves the cursor one item up.
func (m *Model) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

// MoveDown moves the cursor one item down.
func (m *Model) MoveDown() {
	if m.selected < len(m.cache.Items())-1 {
		m.selected++
	}
}

// Select moves the cursor to index i if it names an item.
func (m *Model) Select(i int) bool {
	if i < 0 || i >= len(m.cache.Items()) {
		return false
	}
	m.selected = i
	return true
}

// ItemAt maps a line offset inside the drawn list onto an item index, or -1.
func (m *Model) ItemAt(line int) int {
	if line < 0 || m.Tree().Kind != KindItems {
		return -1
	}
	i := line / ElementHeight
	if i >= len(m.cache.Items()) {
		return -1
	}
	return i
}

func (m *Model) clampSelection() {
	n := len(m.cache.Items())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Update advances the spinner while a load is pending.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if m.cache.State() != Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}
	return m, nil
}

// Tree runs the render step over the current state.
func (m *Model) Tree() Tree {
	return Render(Snapshot{
		State:       m.cache.State(),
		Items:       m.cache.Items(),
		Selected:    m.selected,
		Removing:    m.removing,
		DetailRoute: m.detailRoute,
	})
}

// View draws the list.
func (m Model) View() string {
	return Draw(m.Tree(), m.width, m.spinner.View())
}

// SetWidth updates the drawing width.
func (m *Model) SetWidth(width int) {
	m.width = width
}
