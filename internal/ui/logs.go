package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/br-lazy-bird/content-delivery/internal/logtail"
)

const (
	logRefreshInterval = 2 * time.Second
	logFetchLimit      = 200
)

// logState holds the backend log pane state.
type logState struct {
	visible     bool
	path        string
	lines       []string
	err         error
	lastRefresh time.Time
	follow      bool
}

// logLinesMsg carries a fresh tail of the backend log.
type logLinesMsg struct {
	lines []string
	err   error
}

// readLogCmd tails the backend log off the UI goroutine.
func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logFetchLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

// refreshLogs returns a read command when the pane is visible and the last
// read is old enough.
func (m *Model) refreshLogs(force bool) tea.Cmd {
	if !m.logState.visible || m.logState.path == "" {
		return nil
	}
	if !force && time.Since(m.logState.lastRefresh) < logRefreshInterval {
		return nil
	}
	m.logState.lastRefresh = time.Now()
	return readLogCmd(m.logState.path)
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(0, 0)
	}
	m.logViewport.Width = max(m.width-4, 10)
	m.logViewport.Height = max(m.height-5, 3)
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logState.err != nil {
		return styles.DangerText.Render("Could not read log: " + m.logState.err.Error())
	}
	if len(m.logState.lines) == 0 {
		return styles.MutedText.Render("No backend log yet at " + m.logState.path)
	}

	out := make([]string, 0, len(m.logState.lines))
	for _, line := range m.logState.lines {
		out = append(out, m.colorizeLogLine(logtail.Parse(line), styles))
	}
	return strings.Join(out, "\n")
}

// colorizeLogLine styles each segment of a decoded entry: faint time, colored
// level, accent logger name, plain message, muted fields.
func (m *Model) colorizeLogLine(e logtail.Entry, styles Styles) string {
	segs := e.Segments()
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		var style lipgloss.Style
		switch seg.Part {
		case logtail.PartTime:
			style = styles.FaintText
		case logtail.PartLevel:
			style = levelStyle(e.Level, styles).Bold(true)
		case logtail.PartLogger:
			style = styles.AccentText
		case logtail.PartFields:
			style = styles.MutedText
		default:
			style = styles.Text
		}
		parts = append(parts, style.Render(seg.Text))
	}
	return strings.Join(parts, " ")
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// renderLogs renders the log pane in place of the viewer card.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Backend Log") + " " +
		styles.FaintText.Render(truncateMiddle(m.logState.path, 60))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(max(m.width-2, 10)).
		Render(m.logViewport.View())
	return title + "\n" + box
}
