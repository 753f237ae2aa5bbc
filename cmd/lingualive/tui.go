package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lingualive/lingualive/pkg/core/live"
	"github.com/lingualive/lingualive/pkg/tutor"
)

type sessionStartedMsg struct{}
type sessionStartFailedMsg struct{ err error }
type sessionEventMsg struct{ event live.Event }
type sessionFinishedMsg struct{}

const transcriptLines = 8

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	tutorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	meterStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	reportStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("212"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type model struct {
	app *app

	state      live.SessionState
	connecting bool
	level      float64
	question   int
	entries    []live.TranscriptEntry
	syncing    bool
	errText    string
	report     *tutor.Report
	width      int
}

func newModel(a *app) model {
	return model{app: a, state: live.StateDisconnected, width: 80}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.app.stopSession()
			return m, tea.Quit
		case "s", "enter":
			if m.state == live.StateDisconnected && !m.connecting {
				m.connecting = true
				m.errText = ""
				m.report = nil
				m.entries = nil
				m.question = 0
				return m, m.app.startSession()
			}
		case "e", "esc":
			m.app.stopSession()
		}

	case sessionStartedMsg:
		m.connecting = false

	case sessionStartFailedMsg:
		m.connecting = false
		m.errText = msg.err.Error()

	case sessionFinishedMsg:
		m.state = live.StateDisconnected
		m.level = 0

	case sessionEventMsg:
		m.applyEvent(msg.event)
	}

	return m, nil
}

func (m *model) applyEvent(ev live.Event) {
	switch e := ev.(type) {
	case *live.StateChangedEvent:
		m.state = e.To
		if e.To == live.StateDisconnected {
			m.level = 0
		}

	case *live.LevelEvent:
		m.level = e.RMS

	case *live.ProgressEvent:
		m.question = e.Question

	case *live.EntryAddedEvent:
		m.entries = append(m.entries, e.Entry)
		if e.Entry.Role == live.RoleAssistant && m.question == live.FinalReportPhase {
			if report, ok := tutor.ParseReport(e.Entry.Content); ok {
				m.report = &report
			}
		}

	case *live.SyncStateEvent:
		m.syncing = e.Syncing

	case *live.SessionErrorEvent:
		m.errText = e.Message
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("LinguaLive"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  %s learner: %s", m.app.level, m.app.cfg.UserID)))
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.levelMeter())
	b.WriteString("\n\n")

	b.WriteString(m.transcriptView())

	if m.report != nil {
		b.WriteString("\n")
		b.WriteString(m.reportView())
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("[s] start  [e] end  [q] quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) statusLine() string {
	var status string
	switch {
	case m.connecting || m.state == live.StateConnecting:
		status = statusStyle.Render("● connecting…")
	case m.state == live.StateConnected:
		status = connectedStyle.Render("● connected")
	default:
		status = statusStyle.Render("○ idle")
	}

	switch {
	case m.question == live.FinalReportPhase:
		status += statusStyle.Render("   Final Review")
	case m.question > 0:
		status += statusStyle.Render(fmt.Sprintf("   Question %d/%d", m.question, live.QuestionCount))
	}

	if m.syncing {
		status += statusStyle.Render("   saving transcript…")
	}
	return status
}

func (m model) levelMeter() string {
	const slots = 24
	filled := int(m.level * slots * 4) // scale up: speech RMS rarely exceeds 0.25
	if filled > slots {
		filled = slots
	}
	return meterStyle.Render("mic " + strings.Repeat("▮", filled) + strings.Repeat("▯", slots-filled))
}

func (m model) transcriptView() string {
	if len(m.entries) == 0 {
		return statusStyle.Render("press [s] to begin your interview") + "\n"
	}

	start := 0
	if len(m.entries) > transcriptLines {
		start = len(m.entries) - transcriptLines
	}

	width := m.width - 10
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for _, entry := range m.entries[start:] {
		label := tutorStyle.Render("tutor")
		if entry.Role == live.RoleUser {
			label = userStyle.Render("  you")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", label, truncate(entry.Content, width)))
	}
	return b.String()
}

func (m model) reportView() string {
	r := m.report
	lines := fmt.Sprintf(
		"Final Progress Report\n\nFluency     %3d/100\nGrammar     %3d/100\nVocabulary  %3d/100",
		r.Fluency, r.Grammar, r.Vocabulary,
	)
	if r.Feedback != "" {
		lines += "\n\n" + truncate(r.Feedback, 60)
	}
	return reportStyle.Render(lines) + "\n"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
