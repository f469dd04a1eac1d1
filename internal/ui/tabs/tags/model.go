// Package tags provides the tab showing categories and title keywords as clouds.
package tags

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/biliinsight-tui/internal/app"
)

// maxKeywords caps the keyword cloud.
const maxKeywords = 80

// keyMap defines the key bindings specific to the tags tab.
type keyMap struct {
	Counts key.Binding
	Order  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// defaultKeyMap returns the default key bindings for the tags tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Counts: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle counts"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle order"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the tags tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	width    int
	height   int
	viewport viewport.Model

	showCounts bool
	// byFrequency sorts words by count instead of first appearance.
	byFrequency bool
}

// New creates a new tags model.
func New(state *app.State) *Model {
	return &Model{
		state:       state,
		keys:        defaultKeyMap(),
		viewport:    viewport.New(0, 0),
		byFrequency: true,
	}
}

// Init initializes the tags tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the tags tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.InsightsLoadedMsg:
		m.viewport.GotoTop()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Counts):
			m.showCounts = !m.showCounts
		case key.Matches(msg, m.keys.Order):
			m.byFrequency = !m.byFrequency
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the tags tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Counts,
		m.keys.Order,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Counts, m.keys.Order},
		{m.keys.Up, m.keys.Down},
	}
}
