package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

// CloudWord is one entry of a tag cloud.
type CloudWord struct {
	Text  string
	Count int
}

var cloudTiers = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(styles.TextMuted),
	lipgloss.NewStyle().Foreground(styles.Secondary),
	lipgloss.NewStyle().Foreground(styles.Primary),
	lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Underline(true),
}

// CloudTier maps a count to a weight tier in [0, 3] relative to maxCount.
func CloudTier(count, maxCount int) int {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	tier := int(float64(count) / float64(maxCount) * float64(len(cloudTiers)))
	return min(tier, len(cloudTiers)-1)
}

// RenderTagCloud lays words out left to right, wrapping at width, and
// styles each one by its weight. Words keep the order they are given in.
func RenderTagCloud(words []CloudWord, width int, showCounts bool) string {
	if len(words) == 0 {
		return styles.HelpStyle.Render("Nothing to show yet")
	}
	width = max(width, 10)

	maxCount := 0
	for _, w := range words {
		maxCount = max(maxCount, w.Count)
	}

	var (
		lines   []string
		current strings.Builder
		used    int
	)
	for _, w := range words {
		text := w.Text
		if showCounts {
			text = fmt.Sprintf("%s·%d", w.Text, w.Count)
		}
		word := cloudTiers[CloudTier(w.Count, maxCount)].Render(text)
		wordWidth := lipgloss.Width(word)

		if used > 0 && used+2+wordWidth > width {
			lines = append(lines, current.String())
			current.Reset()
			used = 0
		}
		if used > 0 {
			current.WriteString("  ")
			used += 2
		}
		current.WriteString(word)
		used += wordWidth
	}
	if used > 0 {
		lines = append(lines, current.String())
	}

	return strings.Join(lines, "\n")
}
