package app

import (
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services"
	"github.com/j-veylop/biliinsight-tui/internal/services/login"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// InsightsLoadedMsg carries the result of a history load.
type InsightsLoadedMsg struct {
	Insights *services.Insights
	Error    error
}

// FetchRunsLoadedMsg carries the recent fetch runs of the account.
type FetchRunsLoadedMsg struct {
	Runs  []models.FetchRun
	Error error
}

// LoginStartedMsg carries a freshly issued QR code.
type LoginStartedMsg struct {
	Attempt *services.LoginAttempt
	Error   error
}

// loginPollTickMsg schedules the next poll of an attempt.
type loginPollTickMsg struct {
	attempt *services.LoginAttempt
}

// LoginPolledMsg carries the state of an attempt after one poll.
type LoginPolledMsg struct {
	Attempt *services.LoginAttempt
	State   login.State
	Scanned bool
	Error   error
}

// LoginCompletedMsg is sent once a confirmed session has been stored.
type LoginCompletedMsg struct {
	User  *models.UserInfo
	Error error
}

// LogoutMsg requests forgetting the session.
type LogoutMsg struct{}

// LogoutResultMsg contains the result of a logout.
type LogoutResultMsg struct {
	Error error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "insights", "runs"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// CopyToClipboardMsg requests copying text to the system clipboard.
type CopyToClipboardMsg struct {
	Text  string
	Label string // shown in the confirmation toast
}
