// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/robfig/cron/v3"

	"github.com/j-veylop/biliinsight-tui/internal/bilibili"
	"github.com/j-veylop/biliinsight-tui/internal/config"
	"github.com/j-veylop/biliinsight-tui/internal/db"
	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services/history"
	"github.com/j-veylop/biliinsight-tui/internal/services/login"
	"github.com/j-veylop/biliinsight-tui/internal/services/session"
)

type (
	// SessionChangedEvent is emitted when the user logs in or out, here or
	// in another instance sharing the session file.
	SessionChangedEvent struct {
		Session  *models.Session
		User     *models.UserInfo
		LoggedIn bool
	}

	// InsightsUpdatedEvent is emitted after a scheduled refresh.
	InsightsUpdatedEvent struct {
		Insights *Insights
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SessionChangedEvent) isServiceEvent()  {}
func (InsightsUpdatedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

// FeedClient is the subset of the Bilibili client the manager uses.
type FeedClient interface {
	history.PageSource
	login.QRPoller
	GenerateQRCode(ctx context.Context) (*bilibili.QRCode, error)
	UserInfo(ctx context.Context, session models.Session) (*models.UserInfo, error)
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	client      FeedClient
	sessions    *session.Service
	fetcher     *history.Fetcher
	database    *db.DB
	scheduler   *cron.Cron
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	loadMu sync.Mutex

	notify func(title, body string)
	now    func() time.Time
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	client := bilibili.New(bilibili.Config{
		APIBaseURL:      cfg.APIBaseURL,
		PassportBaseURL: cfg.PassportBaseURL,
		Timeout:         cfg.RequestTimeout,
	})
	return newManager(cfg, client)
}

func newManager(cfg *config.Config, client FeedClient) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		client:   client,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
	m.notify = m.desktopNotify

	var err error
	m.sessions, err = session.New(cfg.SessionPath)
	if err != nil {
		return nil, err
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		_ = m.sessions.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.fetcher = history.NewFetcher(client, history.Config{
		MaxPages:       cfg.HistoryMaxPages,
		RequestTimeout: cfg.RequestTimeout,
	})

	if err := m.startScheduler(); err != nil {
		_ = m.sessions.Close()
		_ = m.database.Close()
		return nil, err
	}

	go m.routeEvents()

	return m, nil
}

// startScheduler registers the periodic refresh. An empty schedule disables it.
func (m *Manager) startScheduler() error {
	if m.cfg.RefreshSchedule == "" {
		return nil
	}

	m.scheduler = cron.New()
	if _, err := m.scheduler.AddFunc(m.cfg.RefreshSchedule, m.scheduledRefresh); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", m.cfg.RefreshSchedule, err)
	}
	m.scheduler.Start()
	return nil
}

// minRefreshGap skips a scheduled refresh when another load, possibly from
// another instance sharing the cache, finished this recently.
const minRefreshGap = time.Minute

// scheduledRefresh reloads insights in the background when logged in.
func (m *Manager) scheduledRefresh() {
	if m.sessions.Current() == nil {
		return
	}

	if mid := m.currentMID(); mid != 0 {
		last, err := m.database.GetLastFetchRun(mid)
		if err != nil {
			logger.Warn("failed to read last fetch run", "error", err)
		} else if last != nil && m.now().Sub(last.FinishedAt) < minRefreshGap {
			logger.Debug("skipping scheduled refresh", "lastRun", last.FinishedAt)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.RefreshTimeout())
	defer cancel()

	insights, err := m.LoadInsights(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "refresh", Error: err})
		return
	}
	m.broadcast(InsightsUpdatedEvent{Insights: insights})
}

// RefreshTimeout bounds one full insights load.
func (m *Manager) RefreshTimeout() time.Duration {
	return m.cfg.RequestTimeout * time.Duration(m.cfg.HistoryMaxPages+2)
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.sessions.Events():
			m.handleSessionEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleSessionEvent converts and broadcasts session events.
func (m *Manager) handleSessionEvent(event session.Event) {
	switch event.Type {
	case session.EventSessionChanged:
		m.broadcast(SessionChangedEvent{
			Session:  event.Session,
			User:     m.sessions.User(),
			LoggedIn: true,
		})

	case session.EventSessionCleared:
		m.broadcast(SessionChangedEvent{LoggedIn: false})

	case session.EventError:
		m.broadcast(ErrorEvent{
			Service: "session",
			Error:   event.Error,
		})
	}
}

func (m *Manager) desktopNotify(title, body string) {
	if !m.cfg.NotificationsEnabled {
		return
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Session returns the current session, or nil when logged out.
func (m *Manager) Session() *models.Session {
	return m.sessions.Current()
}

// User returns the cached account info, or nil.
func (m *Manager) User() *models.UserInfo {
	return m.sessions.User()
}

// RecentFetchRuns returns the latest fetch runs of the logged-in account.
func (m *Manager) RecentFetchRuns(limit int) ([]models.FetchRun, error) {
	mid := m.currentMID()
	if mid == 0 {
		return nil, nil
	}
	return m.database.GetRecentFetchRuns(mid, limit)
}

func (m *Manager) currentMID() int64 {
	if user := m.sessions.User(); user != nil && user.MID != 0 {
		return user.MID
	}
	if sess := m.sessions.Current(); sess != nil {
		return sess.MID
	}
	return 0
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	if m.scheduler != nil {
		stopCtx := m.scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(5 * time.Second):
			logger.Warn("scheduled refresh still running at shutdown")
		}
	}

	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.sessions.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
