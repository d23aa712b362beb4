package homeworks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	homeworkdto "ykwatch/internal/modules/homework/dto"
	"ykwatch/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HomeworkPort interface {
	List(ctx context.Context, input homeworkdto.ListInput) (homeworkdto.SnapshotOutput, error)
	Stats(ctx context.Context) (homeworkdto.StatsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SnapshotLoadedMsg struct {
	Out   homeworkdto.SnapshotOutput
	Stats homeworkdto.StatsOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type homeworkItem struct {
	hw  homeworkdto.HomeworkOutput
	now time.Time
}

func (i homeworkItem) Title() string {
	switch {
	case i.hw.Urgent:
		return theme.Urgent.Render("! " + i.hw.Title)
	case i.hw.Status == "submitted":
		return theme.Done.Render("✓ " + i.hw.Title)
	case i.hw.Status == "expired":
		return theme.Past.Render("✗ " + i.hw.Title)
	default:
		return theme.Waiting.Render("· " + i.hw.Title)
	}
}

func (i homeworkItem) Description() string {
	deadline := "no deadline"
	if i.hw.Deadline != nil {
		deadline = i.hw.Deadline.Format("2006-01-02 15:04") + "  " + remaining(*i.hw.Deadline, i.now)
	}
	return fmt.Sprintf("%s  %s  %s", deadline, i.hw.Status, i.hw.CourseName)
}

func (i homeworkItem) FilterValue() string { return i.hw.Title + " " + i.hw.CourseName }

// remaining renders the time budget the way the popup did: days above 24h,
// hours below, "overdue" once the deadline passed.
func remaining(deadline, now time.Time) string {
	left := deadline.Sub(now)
	switch {
	case left <= 0:
		return "(overdue)"
	case left >= 24*time.Hour:
		return fmt.Sprintf("(%dd left)", int(left/(24*time.Hour)))
	default:
		hours := int(left / time.Hour)
		if left%time.Hour > 0 {
			hours++
		}
		return fmt.Sprintf("(%dh left)", hours)
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      HomeworkPort
	list      list.Model
	spinner   spinner.Model
	loading   bool
	statusFlt string
	courses   []homeworkdto.CourseRefOutput
	courseIdx int // -1 means all courses
	stats     homeworkdto.StatsOutput
	updatedAt time.Time
	fromCache bool
	errText   string
	width     int
	height    int
}

func New(port HomeworkPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Homeworks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:      port,
		list:      l,
		spinner:   sp,
		loading:   true,
		statusFlt: "all",
		courseIdx: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(false), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height-2)

	case SnapshotLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.courses = msg.Out.Courses
		m.stats = msg.Stats
		m.updatedAt = msg.Out.UpdatedAt
		m.fromCache = msg.Out.FromCache
		now := time.Now()
		items := make([]list.Item, len(msg.Out.Homeworks))
		for i, hw := range msg.Out.Homeworks {
			items[i] = homeworkItem{hw: hw, now: now}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "r":
			m.loading = true
			return m, tea.Batch(m.loadCmd(true), m.spinner.Tick)
		case "a":
			m.statusFlt = "all"
			return m, m.loadCmd(false)
		case "u":
			m.statusFlt = "urgent"
			return m, m.loadCmd(false)
		case "p":
			m.statusFlt = "pending"
			return m, m.loadCmd(false)
		case "d":
			m.statusFlt = "done"
			return m, m.loadCmd(false)
		case "c":
			m.cycleCourse()
			return m, m.loadCmd(false)
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
			m.spinner.View()+" Loading homeworks…")
	}
	// A failed refresh with cached data on screen degrades to a header note
	// rather than wiping the list.
	if m.errText != "" && len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Hot.Render("load failed: ")+m.errText+"\n\n"+theme.Muted.Render("r: retry"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.list.View())
}

func (m Model) renderHeader() string {
	counts := fmt.Sprintf("%d total  %s  %d pending  %d done",
		m.stats.Total,
		theme.Urgent.Render(fmt.Sprintf("%d urgent", m.stats.Urgent)),
		m.stats.Pending,
		m.stats.Done,
	)
	scope := "all courses"
	if m.courseIdx >= 0 && m.courseIdx < len(m.courses) {
		scope = m.courses[m.courseIdx].Name
	}
	freshness := "never refreshed"
	if !m.updatedAt.IsZero() {
		freshness = "updated " + m.updatedAt.Format("15:04")
		if m.fromCache {
			freshness += " (cached)"
		}
	}
	line := counts + theme.Muted.Render(fmt.Sprintf("  │ %s [%s] │ %s", scope, m.statusFlt, freshness))
	if m.errText != "" {
		line += theme.Hot.Render("  refresh failed, showing cached data")
	}
	return lipgloss.NewStyle().Width(m.width).Render(line) + "\n"
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) cycleCourse() {
	if len(m.courses) == 0 {
		m.courseIdx = -1
		return
	}
	m.courseIdx++
	if m.courseIdx >= len(m.courses) {
		m.courseIdx = -1
	}
}

func (m Model) loadCmd(refresh bool) tea.Cmd {
	input := homeworkdto.ListInput{Refresh: refresh, Status: m.statusFlt}
	if m.courseIdx >= 0 && m.courseIdx < len(m.courses) {
		input.CourseID = m.courses[m.courseIdx].ID
	}
	return func() tea.Msg {
		out, err := m.port.List(context.Background(), input)
		if err != nil {
			return SnapshotLoadedMsg{Err: err}
		}
		stats, err := m.port.Stats(context.Background())
		if err != nil {
			return SnapshotLoadedMsg{Err: err}
		}
		return SnapshotLoadedMsg{Out: out, Stats: stats}
	}
}
