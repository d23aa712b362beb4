package courses

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coursedto "ykwatch/internal/modules/course/dto"
	"ykwatch/internal/ui/theme"
)

type CoursePort interface {
	ListActive(ctx context.Context) ([]coursedto.CourseOutput, error)
}

type CoursesLoadedMsg struct {
	Courses []coursedto.CourseOutput
	Err     error
}

type courseItem struct {
	course coursedto.CourseOutput
}

func (i courseItem) Title() string       { return i.course.Name }
func (i courseItem) Description() string { return "id " + i.course.ID }
func (i courseItem) FilterValue() string { return i.course.Name }

type Model struct {
	port    CoursePort
	list    list.Model
	spinner spinner.Model
	loading bool
	errText string
	width   int
	height  int
}

func New(port CoursePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Active courses"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case CoursesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		items := make([]list.Item, len(msg.Courses))
		for i, c := range msg.Courses {
			items[i] = courseItem{course: c}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if !m.Filtering() && msg.String() == "r" {
			m.loading = true
			return m, tea.Batch(m.loadCmd(), m.spinner.Tick)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading courses…")
	}
	if m.errText != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Hot.Render("load failed: ")+m.errText+"\n\n"+theme.Muted.Render("r: retry"))
	}
	return m.list.View()
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		courses, err := m.port.ListActive(context.Background())
		return CoursesLoadedMsg{Courses: courses, Err: err}
	}
}
