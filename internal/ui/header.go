package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/memoryhunter/hunter/internal/notify"
	"github.com/memoryhunter/hunter/internal/state"
	"github.com/memoryhunter/hunter/internal/tracker"
)

const progressWidth = 20

// statusText is the header's status line: the backend's own message when it
// sent one, the translated status otherwise.
func (m Model) statusText(d state.Display) string {
	if d.Message != "" {
		return d.Message
	}
	if m.snapshot.IsOffline() && d.Tone == state.ToneDanger {
		return m.bundle.T("status.offline")
	}
	return m.bundle.T(d.StatusKey)
}

// renderHeader renders the logo, backend status, image count and index control.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	d := m.snapshot.Display()

	parts := []string{
		bg.Render("MemoryHunter", styles.Logo),
		bg.Render(m.statusText(d), m.theme.ToneStyle(d.Tone)),
	}
	if d.HasCount {
		parts = append(parts,
			bg.Render(m.bundle.T("stats.indexed_images"), styles.MutedText)+bg.Spaces(1)+
				bg.Render(fmt.Sprintf("%d", d.ImageCount), styles.Text.Bold(true)))
	}
	parts = append(parts, m.renderIndexControl(d, styles, bg))
	parts = append(parts, bg.Render("L", styles.AccentText)+bg.Render(":"+m.bundle.T("lang.switch_to"), styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderIndexControl shows the tracker state. When the tracker is idle but the
// backend reports indexing (a folder job, another client), the stats progress
// is shown instead.
func (m Model) renderIndexControl(d state.Display, styles Styles, bg BgStyle) string {
	switch m.index.State {
	case tracker.Starting:
		return bg.Render(m.spinner.View()+" "+m.bundle.T("index.starting"), styles.WarningText)
	case tracker.Polling:
		return m.progressBar(m.index.Fraction()) + bg.Spaces(1) +
			bg.Render(m.bundle.T("index.progress", m.index.ProgressText()), styles.WarningText)
	}
	if d.Indexing {
		return m.progressBar(d.Fraction) + bg.Spaces(1) +
			bg.Render(m.bundle.T("index.progress", d.Progress), styles.WarningText)
	}
	return bg.Render("I", styles.AccentText) + bg.Render(":"+m.bundle.T("index.start"), styles.MutedText)
}

func (m Model) progressBar(fraction float64) string {
	bar := progress.New(
		progress.WithSolidFill(m.theme.Accent),
		progress.WithWidth(progressWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = m.theme.Faint
	return bar.ViewAs(fraction)
}

// renderTabs renders the tab strip.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		label := fmt.Sprintf("%d %s", i+1, m.bundle.T(title))
		if Tab(i) == m.tab {
			tabs = append(tabs, styles.TabOn.Render(label))
		} else {
			tabs = append(tabs, styles.TabOff.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(row)
}

// renderNotices shows the notices still on screen, newest last.
func (m Model) renderNotices() string {
	if len(m.active) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	parts := make([]string, 0, len(m.active))
	for _, n := range m.active {
		var style lipgloss.Style
		switch n.Level {
		case notify.Success:
			style = styles.SuccessText
		case notify.Warning:
			style = styles.WarningText
		case notify.Error:
			style = styles.DangerText
		default:
			style = styles.InfoText
		}
		parts = append(parts, style.Render("● "+m.bundle.Notice(n)))
	}
	line := strings.Join(parts, "   ")
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// renderCommandBar renders the key hints for the active tab.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var bindings []key.Binding
	switch m.tab {
	case TabSearch:
		bindings = []key.Binding{m.keys.FocusSearch, m.keys.Open, m.keys.TopKUp, m.keys.TopKDown, m.keys.ThresholdUp, m.keys.ThresholdDown}
	case TabFolders:
		bindings = []key.Binding{m.keys.AddFolder, m.keys.RemoveFolder, m.keys.ScanFolder, m.keys.IndexFolder, m.keys.ForceIndex, m.keys.Reload}
	case TabMaintenance:
		bindings = []key.Binding{m.keys.Health, m.keys.Preview, m.keys.Cleanup, m.keys.Optimize, m.keys.MaintStats}
	case TabLogs:
		bindings = []key.Binding{m.keys.CycleLevel, m.keys.ToggleFollow}
	}
	bindings = append(bindings, m.keys.StartIndex, m.keys.Help)

	segments := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+bg.Render(":", styles.FaintText)+bg.Render(m.bundle.T(h.Desc), styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+bg.Render(":", styles.FaintText)+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(segments, "  "))
}
