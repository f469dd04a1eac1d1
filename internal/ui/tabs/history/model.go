// Package history provides the tab listing the videos of the reporting window.
package history

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/biliinsight-tui/internal/app"
	"github.com/j-veylop/biliinsight-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Copy     key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous video"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next video"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "newest"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "oldest"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
	}
}

// Model represents the history tab state.
type Model struct {
	state   *app.State
	spinner components.LoadingSpinner
	keys    keyMap
	width   int
	height  int

	selected int
	offset   int
}

// New creates a new history model.
func New(state *app.State) *Model {
	return &Model{
		state:   state,
		spinner: components.NewSpinner("Fetching watch history..."),
		keys:    defaultKeyMap(),
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.InsightsLoadedMsg:
		// A new window starts at the newest video.
		m.selected, m.offset = 0, 0

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Copy) {
			cmds = append(cmds, m.copySelected())
			break
		}
		m.handleKeyMsg(msg)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) {
	count := len(m.state.Events())
	if count == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.PageUp):
		m.selected -= m.pageSize()
	case key.Matches(msg, m.keys.PageDown):
		m.selected += m.pageSize()
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	}

	m.clamp(count)
}

// copySelected asks the app to copy the link of the highlighted video.
func (m *Model) copySelected() tea.Cmd {
	events := m.state.Events()
	if m.selected >= len(events) {
		return nil
	}
	link := events[m.selected].URL()
	if link == "" {
		return nil
	}
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Text: link, Label: "video link"}
	}
}

// clamp keeps the selection in range and scrolls it into view.
func (m *Model) clamp(count int) {
	m.selected = min(max(m.selected, 0), max(count-1, 0))

	page := m.pageSize()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+page {
		m.offset = m.selected - page + 1
	}
	m.offset = min(max(m.offset, 0), max(count-page, 0))
}

// pageSize is the number of rows that fit under the header and detail card.
func (m *Model) pageSize() int {
	return max(m.height-chromeHeight, 1)
}

// Selected returns the index of the highlighted video.
func (m *Model) Selected() int {
	return m.selected
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clamp(len(m.state.Events()))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Up,
		m.keys.Down,
		m.keys.Top,
		m.keys.Bottom,
		m.keys.Copy,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.PageUp, m.keys.PageDown},
		{m.keys.Top, m.keys.Bottom},
		{m.keys.Copy},
	}
}
