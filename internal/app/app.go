package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/nhle/notification-center/internal/keys"
	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/mutation"
	"github.com/nhle/notification-center/internal/page"
	"github.com/nhle/notification-center/internal/service"
	appsync "github.com/nhle/notification-center/internal/sync"
	"github.com/nhle/notification-center/internal/theme"
	"github.com/nhle/notification-center/internal/ui"
	"github.com/nhle/notification-center/internal/ui/alert"
	"github.com/nhle/notification-center/internal/ui/badge"
	"github.com/nhle/notification-center/internal/ui/dropdown"
	helpview "github.com/nhle/notification-center/internal/ui/help"
	"github.com/nhle/notification-center/internal/ui/notiflist"
)

// Service is the remote notification service as seen by the center.
type Service interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit int) (*service.ListResult, error)
	MarkRead(ctx context.Context, token, id string) (int, error)
	MarkAllRead(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token, id string) error
}

// Options holds everything New needs. Opener defaults to the system browser.
type Options struct {
	Config       *model.AppConfig
	Service      Service
	Tokens       mutation.TokenSource
	Capabilities page.Capabilities
	Logger       zerolog.Logger
	Opener       func(url string) error
}

// Model is the notification center: the root Bubble Tea model that owns the
// unread count, the dropdown, the cached list, and the poller.
type Model struct {
	cfg         *model.AppConfig
	caps        page.Capabilities
	keys        *keys.KeyMap
	layout      ui.Layout
	dropdown    dropdown.Machine
	list        notiflist.Model
	alert       alert.Model
	helpView    helpview.Model
	showHelp    bool
	poller      *appsync.Poller
	mutations   *mutation.Client
	unreadCount int
	pending     map[string]bool
	opener      func(string) error
	baseURL     string
	timeout     time.Duration
	logger      zerolog.Logger
	ready       bool
}

// New creates the notification center. Capabilities are fixed for the
// lifetime of the model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	opener := opts.Opener
	if opener == nil {
		opener = browser.OpenURL
	}

	km := keys.DefaultKeyMap()
	km.Dismiss.SetEnabled(opts.Capabilities.Overlay)
	km.MarkAll.SetEnabled(opts.Capabilities.MarkAll)
	if !opts.Capabilities.CanOpen() {
		km.Toggle.SetEnabled(false)
	}

	logger := opts.Logger.With().Str("component", "center").Logger()

	return Model{
		cfg:       cfg,
		caps:      opts.Capabilities,
		keys:      km,
		layout:    ui.NewLayout(80, 24),
		list:      notiflist.New(opts.Service, cfg.List.PageSize, cfg.Service.DetailRoute, cfg.Timeout(), opts.Logger),
		helpView:  helpview.New(km, 80, 24),
		poller:    appsync.New(opts.Service, cfg.PollInterval(), cfg.Timeout(), opts.Logger),
		mutations: mutation.NewClient(opts.Service, opts.Tokens, opts.Logger),
		pending:   make(map[string]bool),
		opener:    opener,
		baseURL:   cfg.Service.BaseURL,
		timeout:   cfg.Timeout(),
		logger:    logger,
	}
}

// Init fetches the initial unread count and starts polling. A center whose
// page has no trigger does nothing.
func (m Model) Init() tea.Cmd {
	if !m.caps.Enabled() {
		m.logger.Info().Msg("notification trigger missing, center disabled")
		return nil
	}
	return tea.Batch(
		m.poller.FetchCount(),
		m.poller.Start(),
	)
}

// Shutdown stops the poller. It is safe to call more than once.
func (m Model) Shutdown() {
	m.poller.Stop()
}

// UnreadCount returns the last count reported by the service.
func (m Model) UnreadCount() int {
	return m.unreadCount
}

// IsOpen reports whether the dropdown is shown.
func (m Model) IsOpen() bool {
	return m.dropdown.IsOpen()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.list.SetWidth(m.layout.PanelInnerWidth())
		m.helpView.SetSize(msg.Width, m.layout.ContentHeight())
		return m, nil

	case appsync.TickMsg:
		return m, tea.Batch(
			m.poller.Refresh(m.dropdown.IsOpen()),
			m.poller.WaitForNextTick(),
		)

	case appsync.CountResultMsg:
		if msg.Err == nil {
			m.unreadCount = msg.Count
		}
		return m, nil

	case notiflist.LoadedMsg:
		if m.list.Apply(msg) && msg.Err == nil {
			m.unreadCount = msg.UnreadCount
		}
		return m, nil

	case notiflist.RemovalDoneMsg:
		m.list.FinishRemoval(msg.ID)
		m.list.Invalidate()
		return m, m.reloadIfOpen()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd

	case markReadResultMsg:
		return m.handleMarkRead(msg)

	case markAllReadResultMsg:
		return m.handleMarkAllRead(msg)

	case deleteResultMsg:
		return m.handleDelete(msg)

	case navigatedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Str("url", msg.url).Msg("opening detail page")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// handleKey implements the binding step of the center.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.alert.Active() {
		m.alert.Dismiss()
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		m.poller.Stop()
		return m, tea.Quit
	}

	if !m.caps.Enabled() {
		return m, nil
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggle()

	case key.Matches(msg, m.keys.Dismiss):
		m.dropdown.Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.MarkAll):
		if !m.dropdown.IsOpen() {
			return m, nil
		}
		return m, m.markAllRead()
	}

	if !m.dropdown.IsOpen() || !m.caps.List {
		return m, nil
	}

	action := m.list.HandleKey(msg, m.keys)
	return m, m.dispatch(action)
}

// handleMouse maps clicks on the bell and inside or outside the panel.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.alert.Active() || !m.caps.Enabled() {
		return m, nil
	}

	if m.layout.BellHit(msg.X, msg.Y, lipgloss.Width(m.bellView())+2) {
		if !m.keys.Toggle.Enabled() {
			return m, nil
		}
		return m, m.toggle()
	}

	if !m.dropdown.IsOpen() {
		return m, nil
	}

	line, inside := m.layout.PanelHit(msg.X, msg.Y, lipgloss.Height(m.panelView()))
	if !inside {
		if m.caps.Overlay {
			m.dropdown.Dismiss()
		}
		return m, nil
	}
	if !m.caps.List {
		return m, nil
	}
	return m, m.dispatch(m.list.Click(line))
}

// toggle flips the dropdown and loads the list when it opens.
func (m *Model) toggle() tea.Cmd {
	if m.dropdown.Toggle() && m.caps.List {
		return m.list.Load()
	}
	return nil
}

// reloadIfOpen reloads the invalidated list while the panel is shown.
func (m *Model) reloadIfOpen() tea.Cmd {
	if !m.dropdown.IsOpen() || !m.caps.List {
		return nil
	}
	return m.list.Load()
}

// dispatch turns a list action into requests.
func (m *Model) dispatch(action notiflist.Action) tea.Cmd {
	switch action.Kind {
	case notiflist.ActionNavigate:
		// The detail page marks the notification read on the server; the
		// badge catches up on the next count refresh.
		return m.navigate(m.baseURL + action.Target)
	case notiflist.ActionMarkRead:
		return m.markRead(action.Notification.ID)
	case notiflist.ActionDelete:
		return m.deleteNotification(action.Notification.ID)
	}
	return nil
}

func (m Model) handleMarkRead(msg markReadResultMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, pendingKey("read", msg.id))
	if msg.err != nil {
		m.logger.Error().Err(msg.err).Str("id", msg.id).Msg("mark read failed")
		return m, nil
	}

	m.unreadCount = msg.count
	m.list.MarkRead(msg.id)
	m.list.Invalidate()
	if m.cfg.List.RefetchImmediately {
		return m, m.reloadIfOpen()
	}
	return m, nil
}

func (m Model) handleMarkAllRead(msg markAllReadResultMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, pendingKey("all", ""))
	if msg.err != nil {
		m.logger.Error().Err(msg.err).Msg("mark all read failed")
		return m, nil
	}

	m.logger.Debug().Int("changed", msg.changed).Msg("marked all notifications read")
	m.unreadCount = 0
	m.list.MarkAllRead()
	m.list.Invalidate()
	return m, m.reloadIfOpen()
}

func (m Model) handleDelete(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, pendingKey("delete", msg.id))
	if msg.err != nil {
		if service.IsRejected(msg.err) {
			m.logger.Info().Err(msg.err).Str("id", msg.id).Msg("delete rejected")
			m.alert.Show(service.RejectionMessage(msg.err))
			return m, nil
		}
		m.logger.Error().Err(msg.err).Str("id", msg.id).Msg("delete failed")
		return m, nil
	}

	return m, m.list.BeginRemoval(msg.id)
}

// View renders the header with the bell, the panel when open, and the
// status bar.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}

	title := m.cfg.Display.Title
	if !m.caps.Enabled() {
		return m.layout.RenderWithFrame(
			m.layout.RenderHeader(title, ""),
			"",
			m.layout.RenderStatusBar("q quit"),
		)
	}

	header := m.layout.RenderHeader(title, m.bellView())

	var content string
	switch {
	case m.alert.Active():
		content = m.alert.View(m.layout.Width, m.layout.ContentHeight())
	case m.showHelp:
		content = m.helpView.View()
	case m.dropdown.IsOpen():
		content = m.panelView()
	}

	return m.layout.RenderWithFrame(header, content, m.layout.RenderStatusBar(m.helpView.ShortView()))
}

func (m Model) bellView() string {
	return badge.View(badge.Present(m.unreadCount), m.caps.Badge)
}

func (m Model) panelView() string {
	title := theme.UnreadItemStyle.Render("Notificaciones")
	if m.keys.MarkAll.Enabled() {
		title += theme.HelpStyle.Render("   A: marcar todas como leídas")
	}

	body := ""
	if m.caps.List {
		body = m.list.View()
	}
	return m.layout.RenderPanel(title, body)
}
