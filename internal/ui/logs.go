package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/memoryhunter/hunter/internal/logtail"
)

// logLevels is the cycle order of the level filter.
var logLevels = []logrus.Level{logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}

// logPane tails hunter's own log file.
type logPane struct {
	file     string
	viewport viewport.Model
	level    logrus.Level
	follow   bool
	entries  []logtail.Entry
	err      error
}

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

func newLogPane(file string) logPane {
	return logPane{
		file:     file,
		viewport: viewport.New(0, 0),
		level:    logrus.InfoLevel,
		follow:   true,
	}
}

func (m Model) readLogs() tea.Cmd {
	file, level := m.logs.file, m.logs.level
	return func() tea.Msg {
		lines, err := logtail.Read(file, LogReadLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		return logLinesMsg{entries: logtail.Filter(lines, level)}
	}
}

func (m *Model) applyLogs(msg logLinesMsg) {
	m.logs.entries = msg.entries
	m.logs.err = msg.err
	if msg.err != nil {
		m.log.WithError(msg.err).Debug("log tail failed")
	}
	m.logs.viewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m *Model) resizeLogs() {
	m.logs.viewport.Width = max(m.width-2, 1)
	m.logs.viewport.Height = max(m.contentHeight()-3, 1)
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		m.logs.level = nextLevel(m.logs.level)
		return m, m.readLogs()
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
			return m, m.readLogs()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	if !m.logs.viewport.AtBottom() {
		m.logs.follow = false
	}
	return m, cmd
}

func nextLevel(current logrus.Level) logrus.Level {
	for i, lvl := range logLevels {
		if lvl == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logrus.InfoLevel
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	levelName := m.logs.level.String()
	status := m.bundle.T("logs.level", levelName) + "  " + styles.FaintText.Render(truncateMiddle(m.logs.file, max(m.width-40, 10)))
	if m.logs.follow {
		status += "  " + styles.SuccessText.Render("●")
	}
	content := m.logs.viewport.View() + "\n" + styles.MutedText.Render(status)
	return m.renderBox(m.bundle.T("tab.logs"), content, m.width, m.contentHeight(), true)
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logs.err != nil {
		return styles.DangerText.Render(m.bundle.T("logs.read_failed") + ": " + m.logs.err.Error())
	}
	if len(m.logs.entries) == 0 {
		return styles.MutedText.Render(m.bundle.T("logs.empty"))
	}

	var b strings.Builder
	for i, e := range m.logs.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if !e.HasLevel {
			b.WriteString(styles.Text.Render(e.Message))
			continue
		}
		if ts := e.Time; ts != "" {
			if sp := strings.LastIndexByte(ts, ' '); sp >= 0 {
				ts = ts[sp+1:]
			}
			b.WriteString(styles.FaintText.Render(ts))
			b.WriteByte(' ')
		}
		b.WriteString(m.levelStyle(e.Level).Render(padRight(strings.ToUpper(levelLabel(e.Level)), 5)))
		b.WriteByte(' ')
		if e.Component != "" {
			b.WriteString(styles.AccentText.Render("[" + e.Component + "]"))
			b.WriteByte(' ')
		}
		b.WriteString(styles.Text.Render(e.Message))
		if len(e.Fields) > 0 {
			keys := make([]string, 0, len(e.Fields))
			for k := range e.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				b.WriteString(styles.FaintText.Render(" " + k + "=" + e.Fields[k]))
			}
		}
	}
	return b.String()
}

func levelLabel(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "warn"
	}
	return l.String()
}

func (m Model) levelStyle(l logrus.Level) lipgloss.Style {
	styles := m.theme.Styles()
	switch {
	case l <= logrus.ErrorLevel:
		return styles.DangerText
	case l == logrus.WarnLevel:
		return styles.WarningText
	case l == logrus.InfoLevel:
		return styles.InfoText
	default:
		return styles.FaintText
	}
}
