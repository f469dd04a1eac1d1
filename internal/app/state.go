// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services"
	"github.com/j-veylop/biliinsight-tui/internal/services/login"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Insights bool
	Login    bool
}

// LoginView is what the login screen shows for the current attempt.
type LoginView struct {
	Attempt *services.LoginAttempt
	State   login.State
	Scanned bool
	Err     error
}

// State is the data shared between the root model and the tabs.
type State struct {
	mu sync.RWMutex

	User      *models.UserInfo
	LoggedIn  bool
	Insights  *services.Insights
	FetchRuns []models.FetchRun
	Login     LoginView

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state in its initial loading phase.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "insights":
		s.Loading.Insights = loading
	case "login":
		s.Loading.Login = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Insights || s.Loading.Login
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// IsLoading reports whether a specific resource is loading.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case "initial":
		return s.Loading.Initial
	case "insights":
		return s.Loading.Insights
	case "login":
		return s.Loading.Login
	}
	return false
}

// SetSession records the logged-in account. A nil user keeps the old one.
func (s *State) SetSession(user *models.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LoggedIn = true
	if user != nil {
		s.User = user
	}
	s.Login = LoginView{}
}

// ClearSession forgets the account and everything derived from it.
func (s *State) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LoggedIn = false
	s.User = nil
	s.Insights = nil
	s.FetchRuns = nil
	s.Loading.Insights = false
}

// IsLoggedIn reports whether a session is present.
func (s *State) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LoggedIn
}

// GetUser returns the logged-in account, or nil.
func (s *State) GetUser() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.User
}

// SetInsights stores the latest load result.
func (s *State) SetInsights(insights *services.Insights) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Insights = insights
	if insights != nil {
		if insights.User != nil {
			s.User = insights.User
		}
		s.LastUpdated = insights.FetchedAt
	}
}

// GetInsights returns the latest load result, or nil.
func (s *State) GetInsights() *services.Insights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Insights
}

// Summary returns the current summary, or the zero summary.
func (s *State) Summary() models.StatsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Insights == nil {
		return models.StatsSummary{}
	}
	return s.Insights.Summary
}

// Events returns a copy of the current watch events.
func (s *State) Events() []models.WatchEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Insights == nil {
		return nil
	}
	events := make([]models.WatchEvent, len(s.Insights.Events))
	copy(events, s.Insights.Events)
	return events
}

// SetFetchRuns replaces the recent fetch run list.
func (s *State) SetFetchRuns(runs []models.FetchRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FetchRuns = runs
}

// GetFetchRuns returns a copy of the recent fetch runs.
func (s *State) GetFetchRuns() []models.FetchRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]models.FetchRun, len(s.FetchRuns))
	copy(runs, s.FetchRuns)
	return runs
}

// SetLogin replaces the login screen state.
func (s *State) SetLogin(view LoginView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Login = view
}

// GetLogin returns the login screen state.
func (s *State) GetLogin() LoginView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Login
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.activeNotifications()
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeNotifications()
}

func (s *State) activeNotifications() []Notification {
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
