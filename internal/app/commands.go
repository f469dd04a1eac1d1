package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/biliinsight-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// DefaultLoginPollInterval is used when the config leaves it unset.
	DefaultLoginPollInterval = 2 * time.Second

	recentFetchRuns = 10
	loginTimeout    = 30 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInsightsCmd fetches the history window and derives the report.
func loadInsightsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mgr.RefreshTimeout())
		defer cancel()

		insights, err := mgr.LoadInsights(ctx)
		return InsightsLoadedMsg{Insights: insights, Error: err}
	}
}

// loadFetchRunsCmd reads the recent fetch runs from the cache.
func loadFetchRunsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		runs, err := mgr.RecentFetchRuns(recentFetchRuns)
		return FetchRunsLoadedMsg{Runs: runs, Error: err}
	}
}

// startLoginCmd issues a new QR code.
func startLoginCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		attempt, err := mgr.StartLogin(ctx)
		return LoginStartedMsg{Attempt: attempt, Error: err}
	}
}

// scheduleLoginPollCmd waits one poll interval before polling the attempt.
func scheduleLoginPollCmd(attempt *services.LoginAttempt, interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultLoginPollInterval
	}
	return tea.Tick(interval, func(_ time.Time) tea.Msg {
		return loginPollTickMsg{attempt: attempt}
	})
}

// pollLoginCmd polls the attempt once.
func pollLoginCmd(mgr *services.Manager, attempt *services.LoginAttempt) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		state := mgr.PollLogin(ctx, attempt)
		machine := attempt.Poller.Machine()
		return LoginPolledMsg{
			Attempt: attempt,
			State:   state,
			Scanned: machine.Scanned(),
			Error:   machine.Err(),
		}
	}
}

// completeLoginCmd stores the confirmed session of an attempt.
func completeLoginCmd(mgr *services.Manager, attempt *services.LoginAttempt) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		sess := attempt.Poller.Machine().Session()
		if sess == nil {
			return LoginCompletedMsg{Error: errors.New("login confirmed without a session")}
		}
		user, err := mgr.CompleteLogin(ctx, *sess)
		return LoginCompletedMsg{User: user, Error: err}
	}
}

// logoutCmd forgets the session.
func logoutCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return LogoutResultMsg{Error: mgr.Logout()}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// copyToClipboardCmd writes text to the clipboard and reports the outcome as a toast.
func copyToClipboardCmd(text, label string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return AddNotificationMsg{
				Type:     NotificationError,
				Message:  fmt.Sprintf("Copy failed: %v", err),
				Duration: DefaultNotificationDuration,
			}
		}
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  "Copied " + label,
			Duration: QuickNotificationDuration,
		}
	}
}

func notifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     notifType,
			Message:  message,
			Duration: duration,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, LongNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// LoadInsights returns a command that loads the history window.
func (c *Commands) LoadInsights() tea.Cmd {
	return loadInsightsCmd(c.manager)
}

// LoadFetchRuns returns a command that loads the recent fetch runs.
func (c *Commands) LoadFetchRuns() tea.Cmd {
	return loadFetchRunsCmd(c.manager)
}

// StartLogin returns a command that issues a new QR code.
func (c *Commands) StartLogin() tea.Cmd {
	return startLoginCmd(c.manager)
}

// Logout returns a command that forgets the session.
func (c *Commands) Logout() tea.Cmd {
	return logoutCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
