package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

const (
	gradientFrom = "#FB7299"
	gradientTo   = "#00A1D6"

	shareLabelWidth   = 16
	sharePercentWidth = 7
)

// ShareBar renders a labelled bar for a share of the total, such as the
// fraction of videos in one category.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with the theme gradient.
func NewShareBar() ShareBar {
	return NewShareBarWithWidth(30)
}

// NewShareBarWithWidth creates a share bar with a specific width.
func NewShareBarWithWidth(width int) ShareBar {
	p := progress.New(
		progress.WithScaledGradient(gradientFrom, gradientTo),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return ShareBar{progress: p}
}

// SetWidth sets the progress bar width.
func (b *ShareBar) SetWidth(width int) {
	b.progress.Width = width
}

// View renders the bar with its label and percentage. percent is 0..100.
func (b ShareBar) View(percent float64, label string, width int) string {
	barWidth := max(width-shareLabelWidth-sharePercentWidth-2, 10)
	b.progress.Width = barWidth

	percent = min(max(percent, 0), 100)
	bar := b.progress.ViewAs(percent / 100)

	labelStr := styles.ProgressLabelStyle.
		Width(shareLabelWidth).
		Render(ansi.Truncate(label, shareLabelWidth-1, "…"))

	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(sharePercentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = min(max(filled, 0), width)

	var bar strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(gradientFrom, gradientTo, t)
			bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			bar.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return bar.String()
}

// RenderCountBar renders a gradient bar for count out of total, followed by the count.
func RenderCountBar(label string, count, total, width int) string {
	percent := 0.0
	if total > 0 {
		percent = float64(count) / float64(total) * 100
	}

	labelStr := styles.ProgressLabelStyle.Width(8).Render(label)
	countStr := fmt.Sprintf(" %d", count)
	barWidth := max(width-8-lipgloss.Width(countStr)-2, 5)

	return fmt.Sprintf("%s[%s]%s", labelStr, RenderGradientBar(percent, barWidth), countStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
