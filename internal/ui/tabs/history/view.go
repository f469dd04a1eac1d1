package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/ui/components"
	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

const (
	// chromeHeight is the space taken by margins, title, header and detail card.
	chromeHeight = 13

	whenWidth     = 11
	categoryWidth = 12
	authorWidth   = 14
	progressWidth = 6
	minTitleWidth = 12
)

var selectedRowStyle = lipgloss.NewStyle().
	Background(styles.BgAccent).
	Foreground(styles.Primary).
	Bold(true)

// View renders the history tab.
func (m *Model) View() string {
	insights := m.state.GetInsights()
	if insights == nil {
		if m.state.IsLoading("insights") {
			return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
		}
		return styles.CenterBoth(styles.HelpStyle.Render("No history loaded yet. Press r to fetch."), m.width, m.height)
	}

	events := m.state.Events()

	var sections []string
	sections = append(sections, m.renderTitle(len(events), insights.FromCache, insights.FetchedAt))

	if len(events) == 0 {
		sections = append(sections, styles.HelpStyle.Render("No videos watched in this window."))
	} else {
		sections = append(sections, m.renderTable(events))
		sections = append(sections, m.renderDetail(events[m.selected]))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Render(content)
}

func (m *Model) renderTitle(count int, fromCache bool, fetchedAt time.Time) string {
	title := styles.TitleStyle.Render("Watch History")

	parts := []string{fmt.Sprintf("%d videos", count)}
	if !fetchedAt.IsZero() {
		parts = append(parts, "fetched "+fetchedAt.Local().Format("15:04"))
	}
	if fromCache {
		parts = append(parts, styles.WarningTextStyle.Render("from cache"))
	}
	subtitle := styles.HelpStyle.Render(strings.Join(parts, " · "))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) tableWidth() int {
	return max(m.width-8, whenWidth+categoryWidth+authorWidth+progressWidth+minTitleWidth+8)
}

func (m *Model) titleWidth() int {
	return m.tableWidth() - whenWidth - categoryWidth - authorWidth - progressWidth - 8
}

func (m *Model) renderTable(events []models.WatchEvent) string {
	titleWidth := m.titleWidth()

	header := styles.TableHeaderStyle.Width(m.tableWidth()).Render(
		formatRow("When", "Title", "Category", "Author", "Done", titleWidth))

	rows := []string{header}
	end := min(m.offset+m.pageSize(), len(events))
	for i := m.offset; i < end; i++ {
		e := events[i]
		row := formatRow(
			formatWhen(e),
			e.Title,
			e.Category,
			e.Author,
			formatProgress(e),
			titleWidth,
		)
		if i == m.selected {
			row = selectedRowStyle.Render(row)
		}
		rows = append(rows, row)
	}

	return strings.Join(rows, "\n")
}

// formatRow lays out one table row, truncating each cell to its column.
func formatRow(when, title, category, author, progress string, titleWidth int) string {
	return strings.Join([]string{
		cell(when, whenWidth),
		cell(title, titleWidth),
		cell(category, categoryWidth),
		cell(author, authorWidth),
		fmt.Sprintf("%*s", progressWidth, progress),
	}, "  ")
}

func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func formatWhen(e models.WatchEvent) string {
	if !e.HasTimestamp() {
		return "-"
	}
	return e.ViewedTime(time.Local).Format("01-02 15:04")
}

func formatProgress(e models.WatchEvent) string {
	watched := e.EffectiveSeconds()
	if e.DurationSeconds > 0 {
		pct := min(float64(watched)/float64(e.DurationSeconds)*100, 100)
		return fmt.Sprintf("%.0f%%", pct)
	}
	if watched > 0 {
		return fmt.Sprintf("%dm", watched/60)
	}
	return "-"
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (m *Model) renderDetail(e models.WatchEvent) string {
	width := m.tableWidth() - 6

	title := ansi.Truncate(e.Title, width, "…")
	if title == "" {
		title = "(untitled)"
	}

	meta := []string{e.VideoID}
	if e.Business != "" {
		meta = append(meta, e.Business)
	}
	if e.HasTimestamp() {
		meta = append(meta, e.ViewedTime(time.Local).Format("2006-01-02 15:04"))
	}
	if e.DurationSeconds > 0 {
		meta = append(meta, fmt.Sprintf("%s / %s",
			formatDuration(e.EffectiveSeconds()), formatDuration(e.DurationSeconds)))
	}

	rows := []string{
		styles.StatValueStyle.Render(title),
		styles.HelpStyle.Render(ansi.Truncate(strings.Join(meta, " · "), width, "…")),
	}
	if e.CoverURL != "" {
		rows = append(rows, styles.HelpStyle.Render(ansi.Truncate(e.CoverURL, width, "…")))
	}

	return styles.CardStyle.
		Padding(0, 2).
		MarginBottom(0).
		Width(m.tableWidth()).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
