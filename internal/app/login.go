package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/biliinsight-tui/internal/services/login"
	"github.com/j-veylop/biliinsight-tui/internal/ui/components"
	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

// beginLogin discards the current QR code and requests a new one.
func (m *Model) beginLogin() tea.Cmd {
	if m.services == nil || m.state.IsLoading("login") {
		return nil
	}
	m.state.SetLoading("login", true)
	m.state.SetLogin(LoginView{})
	m.spinner.SetLabel("Generating QR code...")
	return startLoginCmd(m.services)
}

// ensureLogin starts a login flow unless one is already showing.
func (m *Model) ensureLogin() tea.Cmd {
	if m.state.GetLogin().Attempt != nil {
		return nil
	}
	return m.beginLogin()
}

func (m *Model) pollInterval() time.Duration {
	if m.services != nil && m.services.Config().LoginPollInterval > 0 {
		return m.services.Config().LoginPollInterval
	}
	return DefaultLoginPollInterval
}

func (m *Model) handleLoginStarted(msg LoginStartedMsg) []tea.Cmd {
	m.state.SetLoading("initial", false)
	m.stopLoading("login")

	if m.state.IsLoggedIn() {
		return nil
	}

	if msg.Error != nil {
		m.state.SetLogin(LoginView{State: login.StateFailed, Err: msg.Error})
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Could not get a login QR code: %v", msg.Error))}
	}

	m.state.SetLogin(LoginView{Attempt: msg.Attempt, State: login.StatePending})
	return []tea.Cmd{scheduleLoginPollCmd(msg.Attempt, m.pollInterval())}
}

func (m *Model) handleLoginPollTick(msg loginPollTickMsg) tea.Cmd {
	if m.services == nil || m.state.IsLoggedIn() || m.state.GetLogin().Attempt != msg.attempt {
		return nil
	}
	return pollLoginCmd(m.services, msg.attempt)
}

func (m *Model) handleLoginPolled(msg LoginPolledMsg) []tea.Cmd {
	// A newer code replaced this one while the poll was in flight.
	if m.state.IsLoggedIn() || m.state.GetLogin().Attempt != msg.Attempt {
		return nil
	}

	m.state.SetLogin(LoginView{
		Attempt: msg.Attempt,
		State:   msg.State,
		Scanned: msg.Scanned,
		Err:     msg.Error,
	})

	switch msg.State {
	case login.StatePending:
		return []tea.Cmd{scheduleLoginPollCmd(msg.Attempt, m.pollInterval())}

	case login.StateConfirmed:
		m.state.SetLoadingNotification("Signing in...")
		return []tea.Cmd{completeLoginCmd(m.services, msg.Attempt)}

	case login.StateExpired:
		return []tea.Cmd{
			notifyWarningCmd("QR code expired, generating a new one"),
			m.beginLogin(),
		}

	default:
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Login failed: %v", msg.Error))}
	}
}

func (m *Model) handleLoginCompleted(msg LoginCompletedMsg) []tea.Cmd {
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}

	if msg.Error != nil {
		m.state.SetLogin(LoginView{State: login.StateFailed, Err: msg.Error})
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Failed to save session: %v", msg.Error))}
	}

	m.state.SetSession(msg.User)

	name := "your account"
	if msg.User != nil && msg.User.UName != "" {
		name = msg.User.UName
	}
	return []tea.Cmd{
		notifySuccessCmd("Logged in as " + name),
		m.beginInsightsLoad(),
	}
}

// renderLogin renders the QR code screen shown while logged out.
func (m *Model) renderLogin() string {
	view := m.state.GetLogin()

	var rows []string
	rows = append(rows, styles.TitleStyle.Render("Log in with the Bilibili app"))

	switch {
	case view.Attempt != nil && view.Attempt.QRCode != nil && view.State == login.StatePending:
		rows = append(rows, components.RenderQRCode(view.Attempt.QRCode.URL), "")
		if view.Scanned {
			rows = append(rows, styles.SuccessTextStyle.Render("Scanned. Confirm the login on your phone."))
		} else {
			rows = append(rows, "Scan the code with the Bilibili mobile app.")
		}

	case view.State == login.StateConfirmed:
		rows = append(rows, m.spinner.View()+" Confirmed, signing in...")

	case view.State == login.StateExpired:
		rows = append(rows, styles.WarningTextStyle.Render("The code expired. A new one is on its way."))

	case view.State == login.StateFailed:
		msg := "Login failed."
		if view.Err != nil {
			msg = fmt.Sprintf("Login failed: %v", view.Err)
		}
		rows = append(rows, styles.ErrorTextStyle.Render(msg))

	default:
		rows = append(rows, m.spinner.ViewWithLabel())
	}

	rows = append(rows, "", styles.HelpStyle.Render("enter: new code  •  ?: help  •  q: quit"))

	panel := styles.LoginPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
	return styles.CenterBoth(panel, m.width, max(m.height-3, lipgloss.Height(panel)))
}
