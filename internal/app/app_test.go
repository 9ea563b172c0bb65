package app

import (
	"context"
	"errors"
	gosync "sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/page"
	"github.com/nhle/notification-center/internal/service"
	appsync "github.com/nhle/notification-center/internal/sync"
	"github.com/nhle/notification-center/internal/ui/notiflist"
)

type fakeService struct {
	mu          gosync.Mutex
	items       []model.Notification
	count       int
	countCalls  int
	listCalls   int
	markCalls   []string
	markAll     int
	deleteCalls []string
	tokens      []string
	markErr     error
	deleteErr   error
}

func (f *fakeService) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	return f.count, nil
}

func (f *fakeService) List(_ context.Context, limit int) (*service.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	items := make([]model.Notification, 0, len(f.items))
	for i, n := range f.items {
		if i >= limit {
			break
		}
		items = append(items, n)
	}
	return &service.ListResult{Notifications: items, UnreadCount: f.unread()}, nil
}

func (f *fakeService) MarkRead(_ context.Context, token, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.markCalls = append(f.markCalls, id)
	if f.markErr != nil {
		return 0, f.markErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
		}
	}
	return f.unread(), nil
}

func (f *fakeService) MarkAllRead(_ context.Context, token string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.markAll++
	changed := f.unread()
	for i := range f.items {
		f.items[i].Read = true
	}
	return changed, nil
}

func (f *fakeService) Delete(_ context.Context, token, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.deleteCalls = append(f.deleteCalls, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeService) unread() int {
	n := 0
	for _, item := range f.items {
		if !item.Read {
			n++
		}
	}
	return n
}

type staticTokens string

func (s staticTokens) Resolve() (string, bool) {
	return string(s), s != ""
}

type harness struct {
	svc    *fakeService
	opened []string
}

func seed() []model.Notification {
	return []model.Notification{
		{ID: "1", Type: model.TypeCorrection, Title: "Corrección pendiente", Message: "Revise el registro", DisplayTimestamp: "hace 2 minutos"},
		{ID: "2", Type: model.TypeBirth, Title: "Nuevo parto", Message: "Registrado", DisplayTimestamp: "hace 1 hora"},
		{ID: "3", Type: model.TypeSystem, Title: "Mantenimiento", Message: "Esta noche", DisplayTimestamp: "ayer", Read: true},
	}
}

func newCenter(t *testing.T, caps page.Capabilities, mutate func(cfg *model.AppConfig)) (Model, *harness) {
	t.Helper()

	h := &harness{svc: &fakeService{items: seed(), count: 2}}
	cfg := model.DefaultAppConfig()
	cfg.Service.BaseURL = "http://svc"
	if mutate != nil {
		mutate(cfg)
	}

	m := New(Options{
		Config:       cfg,
		Service:      h.svc,
		Tokens:       staticTokens("tok"),
		Capabilities: caps,
		Logger:       zerolog.Nop(),
		Opener: func(url string) error {
			h.opened = append(h.opened, url)
			return nil
		},
	})
	// The ticker never runs in tests; stopping it releases tick waiters.
	m.Shutdown()

	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, h
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and every command that follows from feeding its messages
// back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command chain did not settle")

		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var next tea.Cmd
			m, next = update(t, m, msg)
			queue = append(queue, next)
		}
	}
	return m
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pressRun(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, cmd := update(t, m, press(s))
	return run(t, m, cmd)
}

func openPanel(t *testing.T, m Model) Model {
	t.Helper()
	m = pressRun(t, m, "n")
	require.True(t, m.IsOpen())
	require.Equal(t, notiflist.Loaded, m.list.State())
	return m
}

func TestInitialCountUpdatesBadge(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)

	m = run(t, m, m.poller.FetchCount())
	assert.Equal(t, 2, m.UnreadCount())
	assert.Equal(t, 1, h.svc.countCalls)
	assert.Contains(t, m.View(), "2")
}

func TestBadgeOverflow(t *testing.T) {
	m, _ := newCenter(t, page.All(), nil)

	m = send(t, m, appsync.CountResultMsg{Count: 150})
	assert.Contains(t, m.View(), "99+")

	m = send(t, m, appsync.CountResultMsg{Count: 0})
	assert.NotContains(t, m.View(), "99+")
}

func TestCountFailureKeepsBadge(t *testing.T) {
	m, _ := newCenter(t, page.All(), nil)

	m = send(t, m, appsync.CountResultMsg{Count: 5})
	m = send(t, m, appsync.CountResultMsg{Err: errors.New("down")})
	assert.Equal(t, 5, m.UnreadCount())
}

func TestRapidTogglesIssueOneListRequest(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)

	m, first := update(t, m, press("n"))
	require.NotNil(t, first)
	assert.Equal(t, notiflist.Loading, m.list.State())

	m, second := update(t, m, press("n"))
	assert.Nil(t, second)
	assert.False(t, m.IsOpen())

	m, third := update(t, m, press("n"))
	assert.Nil(t, third)
	assert.True(t, m.IsOpen())

	m = run(t, m, first)
	assert.Equal(t, 1, h.svc.listCalls)
	assert.Equal(t, notiflist.Loaded, m.list.State())
	assert.Equal(t, 2, m.UnreadCount(), "badge follows count_no_leidas")

	m = pressRun(t, m, "n")
	m = pressRun(t, m, "n")
	assert.Equal(t, 1, h.svc.listCalls, "reopen uses the cache")
}

func TestMarkAllReadRendersAllRead(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	m = openPanel(t, m)
	assert.Contains(t, m.View(), "●")

	m = pressRun(t, m, "A")

	assert.Equal(t, 1, h.svc.markAll)
	assert.Equal(t, []string{"tok"}, h.svc.tokens)
	assert.Equal(t, 0, m.UnreadCount())
	for _, n := range m.list.Items() {
		assert.True(t, n.Read, "item %s", n.ID)
	}
	assert.Equal(t, 2, h.svc.listCalls, "open panel reloads after mark all")
	assert.NotContains(t, m.View(), "●")
}

func TestMarkAllIgnoredWhenClosed(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)

	m, cmd := update(t, m, press("A"))
	assert.Nil(t, cmd)
	assert.Zero(t, h.svc.markAll)
	assert.False(t, m.IsOpen())
}

func TestMarkReadAppliesServerCount(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	m = openPanel(t, m)

	m = pressRun(t, m, "m")

	assert.Equal(t, []string{"1"}, h.svc.markCalls)
	assert.Equal(t, 1, m.UnreadCount())
	n := m.list.Items()[0]
	assert.True(t, n.Read)
	assert.Equal(t, notiflist.NotLoaded, m.list.State(), "invalidated")
	assert.Equal(t, 1, h.svc.listCalls, "no immediate reload by default")

	m = pressRun(t, m, "n")
	m = pressRun(t, m, "n")
	assert.Equal(t, 2, h.svc.listCalls, "reload on next open")
}

func TestMarkReadRefetchImmediately(t *testing.T) {
	m, h := newCenter(t, page.All(), func(cfg *model.AppConfig) {
		cfg.List.RefetchImmediately = true
	})
	m = openPanel(t, m)

	m = pressRun(t, m, "m")
	assert.Equal(t, 2, h.svc.listCalls)
	assert.Equal(t, notiflist.Loaded, m.list.State())
}

func TestMarkReadOnReadItemSendsNothing(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	m = openPanel(t, m)

	m = pressRun(t, m, "j")
	m = pressRun(t, m, "j")
	m = pressRun(t, m, "m")

	assert.Empty(t, h.svc.markCalls)
}

func TestMarkReadFailureChangesNothing(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	h.svc.markErr = errors.New("connection reset")
	m = openPanel(t, m)

	m = pressRun(t, m, "m")

	assert.Equal(t, 2, m.UnreadCount())
	assert.False(t, m.list.Items()[0].Read)
	assert.Equal(t, notiflist.Loaded, m.list.State())
	assert.False(t, m.alert.Active(), "transport failures are logged only")
}

func TestDeleteUnreadHasNoAffordance(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	m = openPanel(t, m)

	m, cmd := update(t, m, press("d"))
	assert.Nil(t, cmd)
	assert.Empty(t, h.svc.deleteCalls)
}

func TestDeleteRejectedShowsAlert(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	h.svc.deleteErr = &service.RejectedError{StatusCode: 400, Message: "No se puede eliminar una notificación no leída"}
	m = openPanel(t, m)

	m = pressRun(t, m, "j")
	m = pressRun(t, m, "j")
	m = pressRun(t, m, "d")

	assert.Equal(t, []string{"3"}, h.svc.deleteCalls)
	require.True(t, m.alert.Active())
	assert.Contains(t, m.View(), "No se puede eliminar una notificación no leída")
	assert.Len(t, m.list.Items(), 3, "no local removal")
	assert.Equal(t, notiflist.Loaded, m.list.State(), "no invalidation")

	m = pressRun(t, m, "x")
	assert.False(t, m.alert.Active())
	assert.True(t, m.IsOpen(), "dismissing the alert consumes the key")
}

func TestDeleteTransportFailureIsSilent(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	h.svc.deleteErr = errors.New("timeout")
	m = openPanel(t, m)

	m = pressRun(t, m, "j")
	m = pressRun(t, m, "j")
	m = pressRun(t, m, "d")

	assert.False(t, m.alert.Active())
	assert.Len(t, m.list.Items(), 3)
}

func TestDeleteReadItemRemovesIt(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	h.svc.items = []model.Notification{
		{ID: "9", Title: "Leída", Read: true, DisplayTimestamp: "ayer"},
	}
	m = openPanel(t, m)

	m, cmd := update(t, m, press("d"))
	require.NotNil(t, cmd)

	// deliver only the delete result to observe the transition
	m, removal := update(t, m, cmd())
	require.NotNil(t, removal)
	assert.True(t, m.list.Removing("9"))
	assert.Len(t, m.list.Items(), 1)

	m = run(t, m, removal)

	assert.Empty(t, m.list.Items())
	assert.Equal(t, 2, h.svc.listCalls, "open panel reloads after delete")
	assert.Contains(t, m.View(), notiflist.EmptyText)
}

func TestEnterOnUnreadItemOnlyNavigates(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	m = openPanel(t, m)

	m = pressRun(t, m, "enter")

	assert.Equal(t, []string{"http://svc/notifications/1/"}, h.opened)
	assert.Empty(t, h.svc.markCalls, "read-marking is left to the detail page")
	assert.Equal(t, 2, m.UnreadCount())
	item, ok := m.list.Selected()
	require.True(t, ok)
	assert.False(t, item.Read)
}

func TestEnterOnReadItemOnlyNavigates(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	m = openPanel(t, m)

	m = pressRun(t, m, "j")
	m = pressRun(t, m, "j")
	pressRun(t, m, "enter")

	assert.Equal(t, []string{"http://svc/notifications/3/"}, h.opened)
	assert.Empty(t, h.svc.markCalls)
}

func TestPollerCountsOnlyWhenClosed(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)

	m, cmd := update(t, m, appsync.TickMsg{})
	m = run(t, m, cmd)
	assert.Equal(t, 1, h.svc.countCalls)
	assert.Zero(t, h.svc.listCalls)

	m = openPanel(t, m)
	m, cmd = update(t, m, appsync.TickMsg{})
	run(t, m, cmd)
	assert.Equal(t, 1, h.svc.countCalls, "no count while open")
	assert.Equal(t, 1, h.svc.listCalls, "poller never lists")
}

func TestEscDismisses(t *testing.T) {
	m, _ := newCenter(t, page.All(), nil)
	m = openPanel(t, m)

	m = pressRun(t, m, "esc")
	assert.False(t, m.IsOpen())
}

func TestNoTriggerDisablesCenter(t *testing.T) {
	caps := page.All()
	caps.Trigger = false
	m, h := newCenter(t, caps, nil)

	assert.Nil(t, m.Init())

	m, cmd := update(t, m, press("n"))
	assert.Nil(t, cmd)
	assert.False(t, m.IsOpen())
	assert.Zero(t, h.svc.listCalls)
	assert.NotContains(t, m.View(), "🔔")
}

func TestNoOverlayMeansNoDismiss(t *testing.T) {
	caps := page.All()
	caps.Overlay = false
	m, _ := newCenter(t, caps, nil)
	m = openPanel(t, m)

	m = pressRun(t, m, "esc")
	assert.True(t, m.IsOpen())

	m = pressRun(t, m, "n")
	assert.False(t, m.IsOpen(), "trigger still closes")
}

func TestNoMarkAllBinding(t *testing.T) {
	caps := page.All()
	caps.MarkAll = false
	m, h := newCenter(t, caps, nil)
	m = openPanel(t, m)

	pressRun(t, m, "A")
	assert.Zero(t, h.svc.markAll)
}

func TestNoListBindingNeverLoads(t *testing.T) {
	caps := page.All()
	caps.List = false
	m, h := newCenter(t, caps, nil)

	m, cmd := update(t, m, press("n"))
	assert.Nil(t, cmd)
	assert.True(t, m.IsOpen())
	assert.Zero(t, h.svc.listCalls)
}

func TestNoBadgeBindingStillTracksCount(t *testing.T) {
	caps := page.All()
	caps.Badge = false
	m, _ := newCenter(t, caps, nil)

	m = send(t, m, appsync.CountResultMsg{Count: 150})
	assert.Equal(t, 150, m.UnreadCount())
	assert.NotContains(t, m.View(), "99+")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newCenter(t, page.All(), nil)

	m = pressRun(t, m, "?")
	assert.Contains(t, m.View(), "Atajos de teclado")

	m = pressRun(t, m, "n")
	assert.False(t, m.IsOpen(), "keys are captured by help")

	m = pressRun(t, m, "esc")
	assert.NotContains(t, m.View(), "Atajos de teclado")
}

func TestQuit(t *testing.T) {
	m, _ := newCenter(t, page.All(), nil)

	_, cmd := update(t, m, press("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestMouseBellAndOutsideClick(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)

	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	m, cmd := update(t, m, click(79, 0))
	m = run(t, m, cmd)
	require.True(t, m.IsOpen())
	assert.Equal(t, 1, h.svc.listCalls)

	m = send(t, m, click(0, 12))
	assert.False(t, m.IsOpen())
}

func TestClickOnItemOnlyNavigates(t *testing.T) {
	m, h := newCenter(t, page.All(), nil)
	m = openPanel(t, m)

	// first list line sits below the panel border and title
	y := m.layout.HeaderHeight + 2
	m = run(t, m, func() tea.Msg {
		return tea.MouseMsg{X: 79, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	})

	assert.Equal(t, []string{"http://svc/notifications/1/"}, h.opened)
	assert.Empty(t, h.svc.markCalls)
	assert.True(t, m.IsOpen())
}
