// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/biliinsight-tui/internal/bilibili"
	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services"
	"github.com/j-veylop/biliinsight-tui/internal/ui/components"
	"github.com/j-veylop/biliinsight-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabHistory is the ID for the watch history tab.
	TabHistory TabID = iota
	// TabTags is the ID for the tag cloud tab.
	TabTags
	// TabAnalysis is the ID for the analysis tab.
	TabAnalysis
	// TabInfo is the ID for the info tab.
	TabInfo
)

const defaultWindowDays = 7

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabHistory:
		return "History"
	case TabTags:
		return "Tags"
	case TabAnalysis:
		return "Analysis"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Escape   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	NewCode  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	km = setNavigationKeys(km)
	km = setListKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "history"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tags"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "analysis"))
	k.Tab4 = key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "info"))
	k.NextTab = key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/→", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/←", "prev tab"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Refresh = key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	k.NewCode = key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "new QR code"))
	return k
}

func setNavigationKeys(k KeyMap) KeyMap {
	k.Up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	k.Down = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	k.Enter = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	return k
}

func setListKeys(k KeyMap) KeyMap {
	k.PageUp = key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up"))
	k.PageDown = key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down"))
	k.Home = key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "go to top"))
	k.End = key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "go to bottom"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.NextTab, k.PrevTab},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Brand       lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#E85A88", Dark: "#FB7299"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#00A1D6"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.Brand = lipgloss.NewStyle().Bold(true).Foreground(highlight).PaddingRight(2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)
	s.Error = lipgloss.NewStyle().Foreground(errorColor)
	s.Success = lipgloss.NewStyle().Foreground(success)
	s.Warning = lipgloss.NewStyle().Foreground(warning)

	return s
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner components.LoadingSpinner

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager) *Model {
	return &Model{
		activeTab: TabHistory,
		tabNames:  []string{"History", "Tags", "Analysis", "Info"},
		tabs:      make([]Tab, 4), // Placeholder - tabs will be set externally
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   components.NewSpinner("Restoring session..."),
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetKeyMap returns the key bindings.
func (m *Model) GetKeyMap() KeyMap {
	return m.keymap
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Starting...")

	cmds := []tea.Cmd{
		m.spinner.Tick(),
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
		if m.services.Session() != nil {
			m.state.SetSession(m.services.User())
			cmds = append(cmds, m.beginInsightsLoad(), loadFetchRunsCmd(m.services))
		} else {
			cmds = append(cmds, m.beginLogin())
		}
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, tea.KeyMsg, spinner.TickMsg:
		if cmd := m.handleTeaMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		// Keys go to the tabs only once logged in.
		if _, isKey := msg.(tea.KeyMsg); isKey && (!m.state.IsLoggedIn() || m.showHelp) {
			return m, tea.Batch(cmds...)
		}

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
		// Every tab derives its view from the loaded insights.
		if _, loaded := msg.(InsightsLoadedMsg); loaded {
			cmds = append(cmds, m.updateAllTabs(msg))
			return m, tea.Batch(cmds...)
		}
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTeaMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}
	return nil
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		cmds = append(cmds, m.handleTick())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case InsightsLoadedMsg:
		cmds = append(cmds, m.handleInsightsLoaded(msg)...)
	case FetchRunsLoadedMsg:
		m.handleFetchRunsLoaded(msg)
	case LoginStartedMsg:
		cmds = append(cmds, m.handleLoginStarted(msg)...)
	case loginPollTickMsg:
		cmds = append(cmds, m.handleLoginPollTick(msg))
	case LoginPolledMsg:
		cmds = append(cmds, m.handleLoginPolled(msg)...)
	case LoginCompletedMsg:
		cmds = append(cmds, m.handleLoginCompleted(msg)...)
	case LogoutMsg:
		if m.services != nil {
			cmds = append(cmds, logoutCmd(m.services))
		}
	case LogoutResultMsg:
		cmds = append(cmds, m.handleLogoutResult(msg)...)
	case AddNotificationMsg:
		cmds = append(cmds, m.handleAddNotification(msg)...)
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
	case StopLoadingMsg:
		m.stopLoading(msg.Resource)
	case ErrorMsg:
		cmds = append(cmds, m.handleError(msg))
	case RefreshMsg:
		cmds = append(cmds, m.handleRefresh(msg))
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	case CopyToClipboardMsg:
		if msg.Text != "" {
			cmds = append(cmds, copyToClipboardCmd(msg.Text, msg.Label))
		}
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// unsubscribe stops service events from queueing for a program that is exiting.
func (m *Model) unsubscribe() {
	if m.services == nil || m.eventChannel == nil {
		return
	}
	m.services.Unsubscribe(m.eventChannel)
	m.eventChannel = nil
}

func (m *Model) handleTick() tea.Cmd {
	m.state.ClearExpiredNotifications()
	return defaultTickCmd()
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, m.handleServiceEvent(msg.Event)...)
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) []tea.Cmd {
	switch e := event.(type) {
	case services.SessionChangedEvent:
		if e.LoggedIn {
			m.state.SetSession(e.User)
			return []tea.Cmd{
				notifyInfoCmd("Session updated by another instance"),
				m.beginInsightsLoad(),
			}
		}
		var cmds []tea.Cmd
		if m.state.IsLoggedIn() {
			m.state.ClearSession()
			cmds = append(cmds, notifyInfoCmd("Logged out"))
		}
		return append(cmds, m.ensureLogin())

	case services.InsightsUpdatedEvent:
		m.state.SetInsights(e.Insights)
		cmds := m.insightsNotices(e.Insights, true)
		cmds = append(cmds, m.updateAllTabs(InsightsLoadedMsg{Insights: e.Insights}))
		if m.services != nil {
			cmds = append(cmds, loadFetchRunsCmd(m.services))
		}
		return cmds

	case services.ErrorEvent:
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))}
	}

	return nil
}

// beginInsightsLoad starts a history load unless one is already running.
func (m *Model) beginInsightsLoad() tea.Cmd {
	if m.services == nil || m.state.IsLoading("insights") {
		return nil
	}
	m.state.SetLoading("insights", true)
	m.state.SetLoadingNotification("Fetching watch history...")
	return loadInsightsCmd(m.services)
}

func (m *Model) handleInsightsLoaded(msg InsightsLoadedMsg) []tea.Cmd {
	m.state.SetLoading("initial", false)
	m.stopLoading("insights")

	if msg.Error != nil {
		if errors.Is(msg.Error, bilibili.ErrNotLoggedIn) {
			m.state.ClearSession()
			return []tea.Cmd{
				notifyWarningCmd("Session expired, scan the QR code to log in again"),
				m.ensureLogin(),
			}
		}
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Failed to load history: %v", msg.Error))}
	}

	m.state.SetInsights(msg.Insights)
	cmds := m.insightsNotices(msg.Insights, false)
	if m.services != nil {
		cmds = append(cmds, loadFetchRunsCmd(m.services))
	}
	return cmds
}

// insightsNotices turns the outcome of a load into toasts.
func (m *Model) insightsNotices(insights *services.Insights, scheduled bool) []tea.Cmd {
	if insights == nil {
		return nil
	}

	var cmds []tea.Cmd
	switch insights.Status {
	case models.FetchTruncated:
		cmds = append(cmds, notifyWarningCmd(fmt.Sprintf(
			"History truncated after %d pages; older videos may be missing", insights.Pages)))
	case models.FetchFailed:
		if insights.FromCache {
			cmds = append(cmds, notifyWarningCmd("History fetch failed, showing cached history"))
		} else {
			cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("History fetch failed: %v", insights.FetchErr)))
		}
	}

	switch {
	case len(insights.Events) == 0:
		if insights.Status != models.FetchFailed {
			cmds = append(cmds, notifyInfoCmd(fmt.Sprintf(
				"No videos watched in the last %d days", m.windowDays())))
		}
	case insights.Status == models.FetchSuccess && scheduled:
		cmds = append(cmds, notifyInfoCmd("History refreshed"))
	case insights.Status == models.FetchSuccess:
		cmds = append(cmds, notifySuccessCmd(fmt.Sprintf("Loaded %d videos", len(insights.Events))))
	}
	return cmds
}

func (m *Model) windowDays() int {
	if m.services != nil && m.services.Config().HistoryWindowDays > 0 {
		return m.services.Config().HistoryWindowDays
	}
	return defaultWindowDays
}

func (m *Model) handleFetchRunsLoaded(msg FetchRunsLoadedMsg) {
	if msg.Error != nil {
		logger.Warn("failed to load fetch runs", "error", msg.Error)
		return
	}
	m.state.SetFetchRuns(msg.Runs)
}

func (m *Model) handleLogoutResult(msg LogoutResultMsg) []tea.Cmd {
	if msg.Error != nil {
		return []tea.Cmd{notifyErrorCmd(msg.Error.Error())}
	}
	m.state.ClearSession()
	return []tea.Cmd{notifyInfoCmd("Logged out"), m.ensureLogin()}
}

func (m *Model) handleAddNotification(msg AddNotificationMsg) []tea.Cmd {
	var cmds []tea.Cmd
	id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
	if msg.Duration > 0 {
		cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
	}
	return cmds
}

func (m *Model) handleError(msg ErrorMsg) tea.Cmd {
	if msg.Context != "" {
		return notifyErrorCmd(fmt.Sprintf("%s: %v", msg.Context, msg.Error))
	}
	return notifyErrorCmd(msg.Error.Error())
}

func (m *Model) stopLoading(resource string) {
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) handleRefresh(msg RefreshMsg) tea.Cmd {
	if m.services == nil {
		return nil
	}
	switch msg.Resource {
	case "runs":
		return loadFetchRunsCmd(m.services)
	default:
		if !m.state.IsLoggedIn() {
			return m.beginLogin()
		}
		return m.beginInsightsLoad()
	}
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateAllTabs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateTabSizes() {
	contentHeight := max(m.height-5, 0)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTab(id TabID) {
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	// Global keybindings (work regardless of tab)
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.unsubscribe()
		return tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
		}
		return nil
	}

	if m.showHelp {
		return nil
	}

	if !m.state.IsLoggedIn() {
		if key.Matches(msg, m.keymap.NewCode, m.keymap.Refresh) {
			return m.beginLogin()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabHistory)
	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabTags)
	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabAnalysis)
	case key.Matches(msg, m.keymap.Tab4):
		m.switchTab(TabInfo)
	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
	case key.Matches(msg, m.keymap.Refresh):
		return m.beginInsightsLoad()
	}

	// Let the tab handle other keys
	return nil
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	switch {
	case !m.ready:
		b.WriteString(m.styles.Content.Render(m.spinner.ViewWithLabel()))
		return b.String()
	case !m.state.IsLoggedIn():
		b.WriteString(m.renderLogin())
	case int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil:
		b.WriteString(m.tabs[m.activeTab].View())
	default:
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	// Short views still need rows for the overlay to land on.
	for len(mainLines) < m.height {
		mainLines = append(mainLines, "")
	}

	overlayWidth := lipgloss.Width(overlay)

	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		// Pad lines shorter than the overlay start
		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	tabs := []string{m.styles.Brand.Render("BiliInsight")}

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab && m.state.IsLoggedIn() {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	if user := m.state.GetUser(); user != nil && user.UName != "" {
		tabs = append(tabs, m.styles.Subtle.Render("  "+user.UName))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	if len(toasts) == 0 {
		return mainView
	}

	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)

	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			padding := strings.Repeat(" ", startX-mainLineWidth)
			mainLines[lineIdx] = mainLine + padding + toastLine
		} else {
			truncated := ansi.Truncate(mainLine, startX, "")
			mainLines[lineIdx] = truncated + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, "  1-4        Switch tabs")
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Actions"))
	lines = append(lines, "  r          Refetch watch history")
	lines = append(lines, "  enter      New QR code (login screen)")
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if m.state.IsLoggedIn() && int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		tabHelp := m.tabs[m.activeTab].ShortHelp()
		if len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
