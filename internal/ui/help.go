package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpSectionKeys title the groups returned by keyMap.FullHelp, in order.
var helpSectionKeys = []string{
	"help.section.navigation",
	"tab.search",
	"tab.folders",
	"tab.maintenance",
	"tab.logs",
	"help.section.dialogs",
	"help.section.general",
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(14)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(m.bundle.T("help.title")))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n")

	groups := m.keys.FullHelp()
	for i, group := range groups {
		b.WriteString("\n")
		if i < len(helpSectionKeys) {
			b.WriteString(styles.AccentText.Bold(true).Render(m.bundle.T(helpSectionKeys[i])))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(m.bundle.T(h.Desc)))
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(48)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(strings.TrimRight(b.String(), "\n")),
		lipgloss.WithWhitespaceChars(" "),
	)
}
