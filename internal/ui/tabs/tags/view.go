package tags

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/ui/components"
	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

// View renders the tags tab.
func (m *Model) View() string {
	summary := m.state.Summary()

	var sections []string
	sections = append(sections, m.renderTitle(summary))

	if !summary.HasData() {
		sections = append(sections, styles.HelpStyle.Render("Watch a few videos and refresh to see your tags."))
	} else {
		sections = append(sections, m.renderCard(
			fmt.Sprintf("Categories (%d)", len(summary.Categories)),
			m.categoryWords(summary),
		))
		sections = append(sections, m.renderCard(
			fmt.Sprintf("Title keywords (%d)", len(summary.Tags)),
			m.keywordWords(summary),
		))
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(summary models.StatsSummary) string {
	title := styles.TitleStyle.Render("Tags")

	order := "by frequency"
	if !m.byFrequency {
		order = "in viewing order"
	}
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("What %d videos were about, %s", summary.TotalVideos, order))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(m.width-8, 30)
}

func (m *Model) renderCard(title string, words []components.CloudWord) string {
	// Card border and padding take six columns.
	cloud := components.RenderTagCloud(words, m.cardWidth()-6, m.showCounts)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, styles.CardTitleStyle.Render(title), cloud),
	)
}

func (m *Model) categoryWords(summary models.StatsSummary) []components.CloudWord {
	var words []components.CloudWord
	if m.byFrequency {
		for _, c := range summary.TopCategories(0) {
			words = append(words, components.CloudWord{Text: c.Name, Count: c.Count})
		}
		return words
	}
	for _, c := range summary.Categories {
		words = append(words, components.CloudWord{Text: c.Name, Count: c.Count})
	}
	return words
}

// keywordWords returns the most frequent tokens, listed in the selected order.
func (m *Model) keywordWords(summary models.StatsSummary) []components.CloudWord {
	top := summary.TopTags(maxKeywords)

	if m.byFrequency {
		words := make([]components.CloudWord, len(top))
		for i, t := range top {
			words[i] = components.CloudWord{Text: t.Tag, Count: t.Count}
		}
		return words
	}

	keep := make(map[string]bool, len(top))
	for _, t := range top {
		keep[t.Tag] = true
	}
	words := make([]components.CloudWord, 0, len(top))
	for _, t := range summary.Tags {
		if keep[t.Tag] {
			words = append(words, components.CloudWord{Text: t.Tag, Count: t.Count})
		}
	}
	return words
}
