package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/ui/components"
	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

const chartHeight = 8

// View renders the analysis tab.
func (m *Model) View() string {
	insights := m.state.GetInsights()
	if insights == nil {
		if m.state.IsLoading("insights") {
			return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
		}
		return styles.CenterBoth(styles.HelpStyle.Render("Nothing analysed yet. Press r to fetch."), m.width, m.height)
	}

	summary := insights.Summary

	var sections []string
	sections = append(sections, m.renderTitle(summary))

	if summary.HasData() {
		sections = append(sections,
			m.renderStatCards(summary),
			m.renderDailyCard(summary),
			m.renderCategoryCard(summary, time.Now()),
			m.renderTimeOfDayCard(summary, insights.Report.PrimeTime),
			m.renderKeywordCard(summary),
		)
	}
	sections = append(sections, m.renderReport(insights.Report))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(summary models.StatsSummary) string {
	title := styles.TitleStyle.Render("Analysis")

	sub := "Your week on Bilibili"
	if !summary.GeneratedAt.IsZero() {
		sub += " · generated " + summary.GeneratedAt.Local().Format("2006-01-02 15:04")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(sub), "")
}

func (m *Model) cardWidth() int {
	return max(m.width-8, 40)
}

// innerWidth is the usable width inside a card.
func (m *Model) innerWidth() int {
	return m.cardWidth() - 6
}

func (m *Model) renderStatCards(summary models.StatsSummary) string {
	daily := make([]float64, len(summary.DailyStats))
	for i, d := range summary.DailyStats {
		daily[i] = float64(d.VideoCount)
	}

	cards := []string{
		statCard("Videos", fmt.Sprintf("%d", summary.TotalVideos), ""),
		statCard("Watch hours", fmt.Sprintf("%.1f", summary.TotalWatchHours), ""),
		statCard("Per day", fmt.Sprintf("%.1f", summary.AvgDailyVideos), components.RenderSparkline(daily, len(daily))),
		statCard("Top category", summary.TopCategory, ""),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

func statCard(label, value, extra string) string {
	rows := []string{
		styles.HelpStyle.Render(label),
		styles.StatValueStyle.Render(value),
	}
	if extra != "" {
		rows = append(rows, styles.InfoTextStyle.Render(extra))
	}
	return styles.StatCardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (m *Model) renderDailyCard(summary models.StatsSummary) string {
	series := summary.WatchMinutesSeries()

	labels := make([]string, len(summary.DailyStats))
	peak := 0.0
	for i, d := range summary.DailyStats {
		labels[i] = d.Label
		peak = max(peak, d.WatchMinutes)
	}

	// The y-axis gutter is the widest label plus the axis glyph.
	gutter := len(fmt.Sprintf("%.0f", peak)) + 2
	plotWidth := max(m.innerWidth()-gutter-2, 20)

	rows := []string{
		styles.CardTitleStyle.Render("Daily watch time"),
		components.RenderLineChart(series, plotWidth, chartHeight, "minutes per day"),
		components.RenderXAxisLabels(labels, plotWidth, gutter),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderCategoryCard(summary models.StatsSummary, now time.Time) string {
	shares := summary.TopCategories(topCategories)

	rows := []string{styles.CardTitleStyle.Render(fmt.Sprintf("Categories (%d)", len(summary.Categories)))}
	for _, s := range shares {
		label := fmt.Sprintf("%s (%d)", s.Name, s.Count)
		rows = append(rows, m.shareBar.View(m.displayPercent(s.Name, s.Percent, now), label, m.innerWidth()))
	}
	if rest := len(summary.Categories) - len(shares); rest > 0 {
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("+%d more on the Tags tab", rest)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderTimeOfDayCard(summary models.StatsSummary, primeTime string) string {
	total := summary.TimedViews()

	rows := []string{styles.CardTitleStyle.Render("Time of day")}
	if total == 0 {
		rows = append(rows, styles.HelpStyle.Render("No view times recorded"))
	}
	for _, b := range summary.HourBuckets {
		if total == 0 {
			break
		}
		bar := components.RenderCountBar(b.Label, b.Count, total, m.innerWidth()-4)
		if b.Label == primeTime {
			bar += " " + styles.WarningTextStyle.Render("★")
		}
		rows = append(rows, bar)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderKeywordCard(summary models.StatsSummary) string {
	top := summary.TopTags(topTags)

	rows := []string{styles.CardTitleStyle.Render("Top keywords")}
	if len(top) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No keywords in titles"))
	} else {
		values := make([]float64, len(top))
		labels := make([]string, len(top))
		for i, t := range top {
			values[i] = float64(t.Count)
			labels[i] = t.Tag
		}
		rows = append(rows, components.RenderBarChart(values, labels, m.innerWidth()))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderReport(report models.Report) string {
	width := m.cardWidth() - 2

	rows := []string{styles.SubTitleStyle.Render("Report")}

	blocks := report.Blocks()
	for _, p := range blocks[:len(blocks)-len(report.Suggestions)] {
		if strings.TrimSpace(p) == "" {
			continue
		}
		rows = append(rows, styles.ReportBlockStyle.Width(width).Render(p))
	}

	if len(report.Suggestions) > 0 {
		rows = append(rows, styles.SubTitleStyle.Render("Suggestions"))
		for _, s := range report.Suggestions {
			rows = append(rows, styles.SuggestionBlockStyle.Width(width).Render("• "+s))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
