// Package tui renders session snapshots and turns key presses into session
// intents. It holds no chat state of its own: everything it shows comes from
// the latest core.Snapshot.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wirechat-client/internal/core"
)

const rosterWidth = 18

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Padding(0, 1)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Bold(true)

	selfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	rosterStyle = lipgloss.NewStyle().
			Width(rosterWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)
)

// SnapshotMsg delivers fresh session state to the view.
type SnapshotMsg core.Snapshot

// NoticeMsg surfaces a recoverable session error in the status bar.
type NoticeMsg struct {
	Err *core.CoreError
}

// Model is the bubbletea view of one chat session.
type Model struct {
	intents chan<- core.Intent

	snap   core.Snapshot
	notice string

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New constructs the view. Intents flow into the session's intent channel.
func New(intents chan<- core.Intent) Model {
	ti := textinput.New()
	ti.Placeholder = "message or /command"
	ti.Prompt = "> "
	ti.Focus()

	return Model{intents: intents, input: ti}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refreshViewport()
		m.ready = true
		return m, nil

	case SnapshotMsg:
		m.snap = core.Snapshot(msg)
		m.refreshViewport()
		return m, nil

	case NoticeMsg:
		m.notice = msg.Err.Message
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+n", "tab":
			m.intents <- core.Intent{Kind: core.IntentNextTab}
			return m, nil
		case "ctrl+p", "shift+tab":
			m.intents <- core.Intent{Kind: core.IntentPreviousTab}
			return m, nil
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			m.notice = ""
			if raw != "" {
				m.intents <- core.Intent{Kind: core.IntentSubmit, Raw: raw}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "connecting..."
	}

	main := m.viewport.View()
	if len(m.snap.Roster) > 0 {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, renderRoster(m.snap.Roster, m.viewport.Height))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderTabs(m.snap),
		main,
		m.input.View(),
		m.statusLine(),
	)
}

func (m *Model) layout() {
	// One line each for tabs, input and status.
	h := max(m.height-3, 1)
	w := m.width
	if len(m.snap.Roster) > 0 {
		w = max(w-rosterWidth, 1)
	}
	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(w, h)
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.input.Width = max(m.width-4, 1)
}

func (m *Model) refreshViewport() {
	if m.width > 0 {
		m.layout()
	}
	m.viewport.SetContent(renderEntries(m.snap.CurrentBuffer(), m.snap.Nick))
	m.viewport.GotoBottom()
}

func (m Model) statusLine() string {
	current := m.snap.CurrentBuffer().Name
	status := fmt.Sprintf("%s @ %s", m.snap.Nick, current)
	if m.notice != "" {
		status += "  " + noticeStyle.Render(m.notice)
	}
	return statusStyle.Render(status)
}

func renderTabs(snap core.Snapshot) string {
	parts := make([]string, 0, len(snap.Buffers))
	for _, b := range snap.Buffers {
		if b.Current {
			parts = append(parts, activeTabStyle.Render(b.Name))
			continue
		}
		parts = append(parts, tabStyle.Render(b.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderEntries(buffer core.BufferView, nick string) string {
	if len(buffer.Entries) == 0 {
		return systemStyle.Render("no messages yet")
	}

	lines := make([]string, 0, len(buffer.Entries))
	for _, e := range buffer.Entries {
		switch e.Author {
		case core.SystemAuthor:
			lines = append(lines, systemStyle.Render("-- "+e.Text))
		case nick:
			lines = append(lines, selfStyle.Render(e.Author+":")+" "+e.Text)
		default:
			lines = append(lines, authorStyle.Render(e.Author+":")+" "+e.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func renderRoster(roster []core.RosterEntry, height int) string {
	lines := make([]string, 0, len(roster))
	for _, entry := range roster {
		line := entry.Mode + entry.Nick
		if entry.Self {
			line = selfStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return rosterStyle.Height(height).Render(strings.Join(lines, "\n"))
}
