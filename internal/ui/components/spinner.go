package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

// playback is a progress-bar style spinner, like a video buffering.
var playback = spinner.Spinner{
	Frames: []string{"▱▱▱", "▰▱▱", "▰▰▱", "▰▰▰", "▱▰▰", "▱▱▰"},
	FPS:    time.Second / 8,
}

// LoadingSpinner is a spinner with a status label next to it.
type LoadingSpinner struct {
	spinner    spinner.Model
	label      string
	labelStyle lipgloss.Style
}

// NewSpinner creates a spinner showing label.
func NewSpinner(label string) LoadingSpinner {
	return LoadingSpinner{
		spinner: spinner.New(
			spinner.WithSpinner(playback),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
		label:      label,
		labelStyle: lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the animation on its own tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the current frame only.
func (l LoadingSpinner) View() string {
	return l.spinner.View()
}

// ViewWithLabel renders the current frame followed by the label.
func (l LoadingSpinner) ViewWithLabel() string {
	if l.label == "" {
		return l.spinner.View()
	}
	return l.spinner.View() + " " + l.labelStyle.Render(l.label)
}

// SetLabel replaces the label.
func (l *LoadingSpinner) SetLabel(label string) {
	l.label = label
}

// Label returns the label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// Tick returns a command that starts the animation.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.spinner.Tick
}

// RenderSpinnerCentered places the labelled spinner in the middle of a
// width by height area.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.ViewWithLabel(), width, height)
}
