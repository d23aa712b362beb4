package account

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	credentialdto "ykwatch/internal/modules/credential/dto"
	"ykwatch/internal/ui/theme"
)

type CredentialPort interface {
	Status(ctx context.Context) (credentialdto.StatusOutput, error)
	RefreshIdentity(ctx context.Context) (credentialdto.IdentityOutput, error)
	OpenLoginPage(ctx context.Context) error
}

type StatusLoadedMsg struct {
	Status credentialdto.StatusOutput
	Err    error
}

type IdentityResolvedMsg struct {
	Identity credentialdto.IdentityOutput
	Err      error
}

type loginPageOpenedMsg struct{ err error }

type Model struct {
	port    CredentialPort
	status  credentialdto.StatusOutput
	spinner spinner.Model
	loading bool
	note    string
	width   int
	height  int
}

func New(port CredentialPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
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

	case StatusLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.note = "status check failed: " + msg.Err.Error()
			return m, nil
		}
		m.status = msg.Status

	case IdentityResolvedMsg:
		if msg.Err != nil {
			m.note = "identity resolve failed: " + msg.Err.Error()
			return m, nil
		}
		m.note = "identity resolved"
		return m, m.loadCmd()

	case loginPageOpenedMsg:
		if msg.err != nil {
			m.note = "open login page: " + msg.err.Error()
		} else {
			m.note = "login page opened, capture cookies and run 'ykwatch login'"
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, tea.Batch(m.loadCmd(), m.spinner.Tick)
		case "i":
			if m.status.LoggedIn && !m.status.UserKnown {
				m.note = "resolving identity…"
				return m, m.resolveIdentityCmd()
			}
		case "o":
			return m, m.openLoginCmd()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Checking login state…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Account") + "\n\n")
	if !m.status.LoggedIn {
		sb.WriteString(theme.Hot.Render("not logged in") + "\n\n")
		sb.WriteString(theme.Muted.Render("o: open login page  then: ykwatch login --capture <file>") + "\n")
	} else {
		if m.status.UserKnown {
			sb.WriteString(theme.Done.Render("● logged in") + "  " + m.status.UserName +
				theme.Muted.Render(" ("+m.status.UserID+")") + "\n")
		} else {
			sb.WriteString(theme.Waiting.Render("● logged in, identity unknown") + "\n")
			sb.WriteString(theme.Muted.Render("i: resolve identity from the platform") + "\n")
		}
		if !m.status.CapturedAt.IsZero() {
			sb.WriteString(theme.Muted.Render("captured: ") + m.status.CapturedAt.Format("2006-01-02 15:04") + "\n")
		}
	}
	if m.note != "" {
		sb.WriteString("\n" + theme.Muted.Render(m.note) + "\n")
	}

	pane := theme.Pane.Width(min(m.width-4, 72)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Status(context.Background())
		return StatusLoadedMsg{Status: status, Err: err}
	}
}

func (m Model) resolveIdentityCmd() tea.Cmd {
	return func() tea.Msg {
		identity, err := m.port.RefreshIdentity(context.Background())
		return IdentityResolvedMsg{Identity: identity, Err: err}
	}
}

func (m Model) openLoginCmd() tea.Cmd {
	return func() tea.Msg {
		return loginPageOpenedMsg{err: m.port.OpenLoginPage(context.Background())}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
