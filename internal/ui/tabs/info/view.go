package info

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
	"github.com/j-veylop/biliinsight-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderAccountCard())
	sections = append(sections, m.renderFetchRunsCard())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Account, fetch history and configuration")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

// renderAccountCard renders the logged-in account and the logout prompt.
func (m *Model) renderAccountCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Account"))

	user := m.state.GetUser()
	switch {
	case user != nil:
		rows = append(rows, m.renderRow("Name", user.UName))
		rows = append(rows, m.renderRow("UID", fmt.Sprintf("%d", user.MID)))
		rows = append(rows, m.renderRow("Level", fmt.Sprintf("Lv%d", user.Level)))
	case m.state.IsLoggedIn():
		rows = append(rows, styles.HelpStyle.Render("Logged in, account details not loaded yet"))
	default:
		rows = append(rows, styles.HelpStyle.Render("Not logged in"))
	}

	rows = append(rows, "")
	if m.confirmLogout {
		rows = append(rows, styles.WarningTextStyle.Render("Log out and delete the saved session? (y/n)"))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Press 'L' to log out"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderFetchRunsCard lists the most recent history fetches.
func (m *Model) renderFetchRunsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Recent fetches"))

	runs := m.state.GetFetchRuns()
	if len(runs) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No fetches recorded yet"))
	} else {
		header := fmt.Sprintf("%-16s %-10s %5s %6s %8s", "Started", "Status", "Pages", "Videos", "Took")
		rows = append(rows, styles.TableHeaderStyle.Render(header))
		for _, run := range runs {
			rows = append(rows, renderRun(run))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRun(run models.FetchRun) string {
	status := styles.GetStatusStyle(run.Status.String()).
		Width(10).
		Render(run.Status.String())

	line := fmt.Sprintf("%-16s %s %5d %6d %8s",
		run.StartedAt.Local().Format("2006-01-02 15:04"),
		status,
		run.Pages,
		run.Events,
		run.Duration().Round(10*time.Millisecond),
	)
	if run.Error != "" {
		line += "\n" + styles.ErrorTextStyle.Render("  "+run.Error)
	}
	return line
}

// renderConfigCard renders the configuration paths card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		rows = append(rows, m.renderRow("Database", m.config.DatabasePath))
		if insights := m.state.GetInsights(); insights != nil {
			rows = append(rows, m.renderRow("Cached Videos", fmt.Sprintf("%d", insights.CachedEvents)))
		}
		rows = append(rows, m.renderRow("Session File", m.config.SessionPath))
		rows = append(rows, m.renderRow("Log Directory", m.config.LogDir))
		rows = append(rows, m.renderRow("History Window", fmt.Sprintf("%d days", m.config.HistoryWindowDays)))
		rows = append(rows, m.renderRow("Page Limit", fmt.Sprintf("%d pages × %d", m.config.HistoryMaxPages, m.config.HistoryPageSize)))
		schedule := m.config.RefreshSchedule
		if schedule == "" {
			schedule = "off"
		}
		rows = append(rows, m.renderRow("Refresh Schedule", schedule))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Press 'c' to copy the database path"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderRow renders a key-value row.
func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About BiliInsight"))

	rows = append(rows, m.renderRow("Version", version.GetVersion()))
	rows = append(rows, m.renderRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
