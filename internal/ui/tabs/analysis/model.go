// Package analysis provides the tab with the weekly statistics and report.
package analysis

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/biliinsight-tui/internal/app"
	"github.com/j-veylop/biliinsight-tui/internal/ui/components"
)

const (
	// topCategories is how many categories get a share bar.
	topCategories = 8
	// topTags is how many keywords the keyword chart lists.
	topTags = 10

	animationDuration = 1500 * time.Millisecond
)

type animationTickMsg time.Time

func animationTickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*40, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// keyMap defines the key bindings specific to the analysis tab.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
}

// defaultKeyMap returns the default key bindings for the analysis tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
	}
}

// AnimationState tracks one share bar easing toward its value.
type AnimationState struct {
	StartTime     time.Time
	StartPercent  float64
	TargetPercent float64
}

// Current returns the eased value at now.
func (a *AnimationState) Current(now time.Time) float64 {
	elapsed := now.Sub(a.StartTime)
	if elapsed >= animationDuration || elapsed < 0 {
		return a.TargetPercent
	}
	progress := elapsed.Seconds() / animationDuration.Seconds()
	ease := 1.0 - (1.0-progress)*(1.0-progress)
	return a.StartPercent + (a.TargetPercent-a.StartPercent)*ease
}

// Done reports whether the animation has reached its target at now.
func (a *AnimationState) Done(now time.Time) bool {
	return now.Sub(a.StartTime) >= animationDuration
}

// Model represents the analysis tab state.
type Model struct {
	state      *app.State
	spinner    components.LoadingSpinner
	shareBar   components.ShareBar
	keys       keyMap
	viewport   viewport.Model
	animations map[string]*AnimationState
	width      int
	height     int
}

// New creates a new analysis model.
func New(state *app.State) *Model {
	return &Model{
		state:      state,
		spinner:    components.NewSpinner("Analysing your week..."),
		shareBar:   components.NewShareBar(),
		keys:       defaultKeyMap(),
		viewport:   viewport.New(0, 0),
		animations: make(map[string]*AnimationState),
	}
}

// Init initializes the analysis tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the analysis tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case animationTickMsg:
		if m.step(time.Time(msg)) {
			cmds = append(cmds, animationTickCmd())
		}

	case app.InsightsLoadedMsg:
		m.viewport.GotoTop()
		if m.syncTargets(time.Now()) {
			cmds = append(cmds, animationTickCmd())
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Top) {
			m.viewport.GotoTop()
			break
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// syncTargets points every visible category bar at its current share.
// Bars of categories that dropped out of the top list are forgotten.
func (m *Model) syncTargets(now time.Time) (animating bool) {
	shares := m.state.Summary().TopCategories(topCategories)

	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		seen[s.Name] = true

		anim, ok := m.animations[s.Name]
		if !ok {
			anim = &AnimationState{StartTime: now}
			m.animations[s.Name] = anim
		}
		if anim.TargetPercent != s.Percent {
			anim.StartPercent = anim.Current(now)
			anim.TargetPercent = s.Percent
			anim.StartTime = now
		}
		if !anim.Done(now) {
			animating = true
		}
	}

	for name := range m.animations {
		if !seen[name] {
			delete(m.animations, name)
		}
	}
	return animating
}

// step reports whether any bar is still moving. Values are derived from
// time, so a tick only needs to trigger a redraw.
func (m *Model) step(now time.Time) bool {
	for _, anim := range m.animations {
		if !anim.Done(now) {
			return true
		}
	}
	return false
}

// displayPercent returns the animated share for a category, falling back
// to the real value when the bar has no animation.
func (m *Model) displayPercent(name string, actual float64, now time.Time) float64 {
	if anim, ok := m.animations[name]; ok {
		return anim.Current(now)
	}
	return actual
}

// SetSize sets the available size for the analysis tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Up,
		m.keys.Down,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.PageUp, m.keys.PageDown},
		{m.keys.Top},
	}
}
