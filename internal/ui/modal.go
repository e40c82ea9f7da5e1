package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/memoryhunter/hunter/internal/i18n"
)

// frame is what a modal needs to draw itself.
type frame struct {
	theme  Theme
	bundle *i18n.Bundle
	width  int
	height int
}

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(f frame) string
}

// confirmModal asks a yes/no question and runs onYes when accepted.
type confirmModal struct {
	message string
	args    []any
	onYes   tea.Cmd
}

func newConfirm(message string, onYes tea.Cmd, args ...any) *confirmModal {
	return &confirmModal{message: message, args: args, onYes: onYes}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		return c, c.onYes, true
	case key.Matches(km, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(f frame) string {
	styles := f.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render(f.bundle.T(c.message, c.args...)))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + " " + styles.Text.Render(f.bundle.T("confirm.yes")))
	b.WriteString("    ")
	b.WriteString(styles.AccentText.Render("n") + " " + styles.Text.Render(f.bundle.T("confirm.no")))
	return placeModal(f, b.String(), 56)
}

// placeModal centres content in a bordered box.
func placeModal(f frame, content string, width int) string {
	width = min(width, max(f.width-4, 20))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(f.theme.Accent)).
		Background(lipgloss.Color(f.theme.SurfaceAlt)).
		Padding(1, 2).
		Width(width).
		Render(content)
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
