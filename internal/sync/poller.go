// Package sync runs the background unread-count refresh.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// TickMsg is a tea.Msg delivered on every polling interval.
type TickMsg struct {
	At time.Time
}

// CountResultMsg is a tea.Msg carrying the outcome of a count request.
type CountResultMsg struct {
	Count int
	Err   error
}

// Counter fetches the authoritative unread count.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// DefaultInterval is used when a non-positive interval is configured.
const DefaultInterval = 60 * time.Second

// DefaultTimeout bounds a count request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Poller fires a tick at a fixed interval until stopped. It reads no
// notification state: the caller passes the dropdown state into Refresh.
type Poller struct {
	counter  Counter
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	tickCh   chan TickMsg
	stopCh   chan struct{}
	mu       gosync.Mutex
	running  bool
	stopped  bool
}

// New creates a poller that asks counter for the unread count.
func New(counter Counter, interval, timeout time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Poller{
		counter:  counter,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("component", "poller").Logger(),
		tickCh:   make(chan TickMsg, 1),
		stopCh:   make(chan struct{}),
	}
}

// Interval returns the effective polling interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start launches the ticker goroutine and returns a command that waits for
// the first tick. It returns nil when the poller already runs or was stopped.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForTick()
}

// Stop halts the ticker goroutine. It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	p.running = false
	close(p.stopCh)
}

// Running reports whether the ticker goroutine is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh returns the work for one tick: a count request while the dropdown
// is closed, nothing while it is open. It never requests the list.
func (p *Poller) Refresh(open bool) tea.Cmd {
	if open {
		return nil
	}
	return p.FetchCount()
}

// FetchCount returns a command that requests the unread count.
func (p *Poller) FetchCount() tea.Cmd {
	counter := p.counter
	logger := p.logger
	timeout := p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		count, err := counter.Count(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("refreshing unread count")
		}
		return CountResultMsg{Count: count, Err: err}
	}
}

// WaitForNextTick returns a command that waits for the next tick. Call it
// after handling each TickMsg to keep listening.
func (p *Poller) WaitForNextTick() tea.Cmd {
	return p.waitForTick()
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case at := <-ticker.C:
			select {
			case p.tickCh <- TickMsg{At: at}:
			default:
				// A tick is already pending; the runtime has not caught up.
			}
		}
	}
}

func (p *Poller) waitForTick() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.tickCh:
			return msg
		case <-p.stopCh:
			return nil
		}
	}
}
