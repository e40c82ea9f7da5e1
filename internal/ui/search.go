package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/memoryhunter/hunter/internal/i18n"
	"github.com/memoryhunter/hunter/internal/search"
)

// searchPane holds the search tab's local state. The results themselves live
// in the search controller.
type searchPane struct {
	input  textinput.Model
	cursor int
	view   search.View
}

func newSearchPane(bundle *i18n.Bundle) searchPane {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	if bundle != nil {
		ti.Placeholder = bundle.T("search.placeholder")
	}
	return searchPane{input: ti}
}

func (p *searchPane) clamp() {
	if p.cursor >= len(p.view.Cards) {
		p.cursor = len(p.view.Cards) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		query := m.search.input.Value()
		m.search.input.Blur()
		m.search.cursor = 0
		return m, m.run(func(ctx context.Context) error {
			return m.searcher.Submit(ctx, query)
		})
	case tea.KeyEsc:
		m.search.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.search.view.Cards
	switch {
	case key.Matches(msg, m.keys.FocusSearch):
		m.search.input.Placeholder = m.bundle.T("search.placeholder")
		return m, m.search.input.Focus()
	case key.Matches(msg, m.keys.TopKUp):
		m.searcher.AdjustTopK(1)
	case key.Matches(msg, m.keys.TopKDown):
		m.searcher.AdjustTopK(-1)
	case key.Matches(msg, m.keys.ThresholdUp):
		m.searcher.AdjustThreshold(1)
	case key.Matches(msg, m.keys.ThresholdDown):
		m.searcher.AdjustThreshold(-1)
	case key.Matches(msg, m.keys.Down):
		if m.search.cursor < len(cards)-1 {
			m.search.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.search.cursor > 0 {
			m.search.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.search.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.search.cursor = max(len(cards)-1, 0)
	case key.Matches(msg, m.keys.Open):
		if len(cards) == 0 {
			return m, m.search.input.Focus()
		}
		return m.openViewer(cards[m.search.cursor])
	}
	m.sync()
	return m, nil
}

// openViewer shows the modal at once and decodes the image in the background.
func (m Model) openViewer(card search.Card) (tea.Model, tea.Cmd) {
	gen := m.viewer.Open(card.Result)
	m.modal = newViewerModal(m.viewer, card)
	return m, m.run(func(ctx context.Context) error {
		return m.viewer.Load(ctx, gen)
	})
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	v := m.search.view
	height := m.contentHeight()
	width := max(m.width-4, 10)

	var lines []string
	lines = append(lines, m.search.input.View())
	controls := fmt.Sprintf("%s: %d    %s: %.2f",
		m.bundle.T("search.top_k"), v.TopK,
		m.bundle.T("search.threshold"), v.Threshold)
	if v.Loading() {
		controls += "    " + m.spinner.View() + " " + m.bundle.T("search.loading")
	}
	lines = append(lines, styles.MutedText.Render(controls), "")

	switch {
	case v.NoResults():
		lines = append(lines,
			styles.WarningText.Render(m.bundle.T("search.no_results")),
			styles.FaintText.Render(m.bundle.T("search.no_results_hint")))
	case v.Searched:
		lines = append(lines, styles.AccentText.Render(m.bundle.T("search.summary", v.Count, v.Query)))
		rows := max(height-2-len(lines), 1)
		start := 0
		if m.search.cursor >= rows {
			start = m.search.cursor - rows + 1
		}
		end := min(start+rows, len(v.Cards))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderCard(v.Cards[i], i == m.search.cursor, width))
		}
	}

	return m.renderBox(m.bundle.T("tab.search"), strings.Join(lines, "\n"), m.width, height, m.search.input.Focused())
}

func (m Model) renderCard(card search.Card, selected bool, width int) string {
	styles := m.theme.Styles()
	name := padRight(truncate(card.Result.Filename, 32), 32)
	score := padRight(card.Score, 7)
	objects := ""
	if card.Objects > 0 {
		objects = m.bundle.T("search.objects", card.Objects)
	}
	objects = padRight(objects, 10)
	urlWidth := max(width-lipgloss.Width(name)-lipgloss.Width(score)-lipgloss.Width(objects)-8, 10)

	if selected {
		line := "▸ " + name + "  " + score + "  " + objects + "  " + truncateMiddle(card.URL, urlWidth)
		return styles.Selected.Render(padRight(line, width))
	}
	return "  " + styles.Text.Render(name) + "  " +
		styles.SuccessText.Render(score) + "  " +
		styles.InfoText.Render(objects) + "  " +
		styles.FaintText.Render(truncateMiddle(card.URL, urlWidth))
}
