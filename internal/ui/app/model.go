package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ykwatch/internal/platform/config"
	"ykwatch/internal/ui/theme"
	accountview "ykwatch/internal/ui/views/account"
	coursesview "ykwatch/internal/ui/views/courses"
	homeworksview "ykwatch/internal/ui/views/homeworks"
)

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabHomeworks tabID = iota
	tabCourses
	tabAccount
	tabCount
)

var tabLabels = [tabCount]string{"Homeworks", "Courses", "Account"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Quit    key.Binding
	Refresh key.Binding
	Filter  key.Binding
	Course  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Filter:  key.NewBinding(key.WithKeys("a", "u", "p", "d"), key.WithHelp("a/u/p/d", "status filter")),
		Course:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle course")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh},
		{k.Filter, k.Course},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing and the global help
// overlay; all business logic is behind the sub-view ports.
type Model struct {
	cfg config.Config

	hwView      homeworksview.Model
	courseView  coursesview.Model
	accountView accountview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	width     int
	height    int
}

func NewModel(
	cfg config.Config,
	credential accountview.CredentialPort,
	courses coursesview.CoursePort,
	homeworks homeworksview.HomeworkPort,
) Model {
	return Model{
		cfg:         cfg,
		hwView:      homeworksview.New(homeworks),
		courseView:  coursesview.New(courses),
		accountView: accountview.New(credential),
		activeTab:   tabHomeworks,
		keys:        defaultKeys(),
		help:        help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.hwView.Init(),
		m.courseView.Init(),
		m.accountView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.propagateSize()

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.subViewFiltering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabHomeworks:
		m.hwView, tabCmd = m.hwView.Update(msg)
	case tabCourses:
		m.courseView, tabCmd = m.courseView.Update(msg)
	case tabAccount:
		m.accountView, tabCmd = m.accountView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	if m.showHelp {
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	} else {
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabHomeworks:
		return m.hwView.View()
	case tabCourses:
		return m.courseView.View()
	case tabAccount:
		return m.accountView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "ykwatch  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Muted.Render(m.cfg.DataDir)
	right := theme.Muted.Render("?:help  tab:switch  r:refresh  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open, in
// which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabHomeworks:
		return m.hwView.Filtering()
	case tabCourses:
		return m.courseView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.hwView, _ = m.hwView.Update(sz)
	m.courseView, _ = m.courseView.Update(sz)
	m.accountView, _ = m.accountView.Update(sz)
}
