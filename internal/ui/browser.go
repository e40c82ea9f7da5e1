package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memoryhunter/hunter/internal/folders"
	"github.com/memoryhunter/hunter/internal/memhunter"
)

type browserMode int

const (
	browseMode browserMode = iota
	filterMode
	renameMode
)

// browserNavMsg reports that the listing changed.
type browserNavMsg struct{}

// browserConfirmMsg reports the result of adding the selected folder.
type browserConfirmMsg struct{ err error }

// browserModal drives the add-folder dialog.
type browserModal struct {
	ctx     context.Context
	browser *folders.Browser
	cursor  int
	mode    browserMode
	input   textinput.Model
	// inputErr is shown under the filter input, e.g. a bad glob.
	inputErr string
}

func newBrowserModal(ctx context.Context, b *folders.Browser) *browserModal {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.CharLimit = 120
	return &browserModal{ctx: ctx, browser: b, input: ti}
}

func (bm *browserModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case browserNavMsg:
		bm.cursor = 0
		return bm, nil, false
	case browserConfirmMsg:
		return bm, nil, msg.err == nil
	case tea.KeyMsg:
		if bm.mode != browseMode {
			return bm.updateInput(msg)
		}
		return bm.updateBrowse(msg, keys)
	}
	return bm, nil, false
}

func (bm *browserModal) updateBrowse(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	v := bm.browser.View()
	switch {
	case key.Matches(msg, keys.Escape):
		bm.browser.Close()
		return bm, nil, true
	case key.Matches(msg, keys.Down):
		if bm.cursor < len(v.Entries)-1 {
			bm.cursor++
		}
	case key.Matches(msg, keys.Up):
		if bm.cursor > 0 {
			bm.cursor--
		}
	case key.Matches(msg, keys.BrowseInto):
		if entry, ok := bm.current(v); ok {
			return bm, bm.nav(func(ctx context.Context) error { return bm.browser.Enter(ctx, entry) }), false
		}
	case key.Matches(msg, keys.BrowseUp):
		return bm, bm.nav(bm.browser.Up), false
	case key.Matches(msg, keys.Select):
		if entry, ok := bm.current(v); ok {
			_ = bm.browser.Select(entry)
		}
	case key.Matches(msg, keys.Filter):
		bm.mode = filterMode
		bm.inputErr = ""
		bm.input.Prompt = "/ "
		bm.input.SetValue(v.Filter)
		return bm, bm.input.Focus(), false
	case key.Matches(msg, keys.Rename):
		if v.Selected == nil {
			return bm, nil, false
		}
		bm.mode = renameMode
		bm.inputErr = ""
		bm.input.Prompt = "✎ "
		bm.input.SetValue(v.Selected.Name)
		return bm, bm.input.Focus(), false
	case key.Matches(msg, keys.Confirm):
		ctx := bm.ctx
		return bm, func() tea.Msg {
			_, err := bm.browser.Confirm(ctx)
			return browserConfirmMsg{err: err}
		}, false
	}
	return bm, nil, false
}

func (bm *browserModal) updateInput(msg tea.KeyMsg) (Modal, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		bm.mode = browseMode
		bm.input.Blur()
		return bm, nil, false
	case tea.KeyEnter:
		value := bm.input.Value()
		if bm.mode == filterMode {
			if err := bm.browser.SetFilter(value); err != nil {
				bm.inputErr = err.Error()
				return bm, nil, false
			}
			bm.cursor = 0
		} else {
			bm.browser.Rename(value)
		}
		bm.mode = browseMode
		bm.input.Blur()
		return bm, nil, false
	}
	var cmd tea.Cmd
	bm.input, cmd = bm.input.Update(msg)
	return bm, cmd, false
}

func (bm *browserModal) current(v folders.BrowserView) (memhunter.BrowseEntry, bool) {
	if bm.cursor < 0 || bm.cursor >= len(v.Entries) {
		return memhunter.BrowseEntry{}, false
	}
	return v.Entries[bm.cursor], true
}

func (bm *browserModal) nav(fn func(ctx context.Context) error) tea.Cmd {
	ctx := bm.ctx
	return func() tea.Msg {
		_ = fn(ctx)
		return browserNavMsg{}
	}
}

func (bm *browserModal) View(f frame) string {
	styles := f.theme.Styles()
	v := bm.browser.View()
	width := max(min(f.width-4, 90), 30)
	inner := width - 6

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.bundle.T("browser.title")))
	b.WriteString("\n")
	location := v.CurrentPath
	if v.IsRoot || location == "" {
		location = f.bundle.T("browser.this_pc")
	}
	b.WriteString(styles.MutedText.Render(truncateMiddle(location, inner)))
	if v.Filter != "" {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  [%s %d/%d]", v.Filter, len(v.Entries), v.Total)))
	}
	b.WriteString("\n\n")

	rows := max(f.height-16, 3)
	switch {
	case v.Err != nil:
		b.WriteString(styles.DangerText.Render(f.bundle.T("browser.load_failed")))
		b.WriteString("\n")
	case len(v.Entries) == 0:
		b.WriteString(styles.MutedText.Render(f.bundle.T("browser.empty")))
		b.WriteString("\n")
	default:
		start := 0
		if bm.cursor >= rows {
			start = bm.cursor - rows + 1
		}
		end := min(start+rows, len(v.Entries))
		for i := start; i < end; i++ {
			b.WriteString(bm.renderEntry(f, v.Entries[i], i == bm.cursor, v.Selected, inner))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if v.Selected != nil {
		b.WriteString(styles.SuccessText.Render(f.bundle.T("browser.selected", v.Selected.Path)))
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render(f.bundle.T("browser.folder_name") + ": " + v.Selected.Name))
	} else {
		b.WriteString(styles.FaintText.Render(f.bundle.T("browser.select_first")))
	}

	if bm.mode != browseMode {
		b.WriteString("\n")
		b.WriteString(bm.input.View())
		if bm.inputErr != "" {
			b.WriteString("\n")
			b.WriteString(styles.DangerText.Render(truncate(bm.inputErr, inner)))
		}
	}
	return placeModal(f, b.String(), width)
}

func (bm *browserModal) renderEntry(f frame, e memhunter.BrowseEntry, cursor bool, sel *folders.Selection, width int) string {
	styles := f.theme.Styles()
	count := f.bundle.T("browser.no_images")
	if e.ImageCount > 0 {
		count = f.bundle.T("browser.image_count", e.ImageCount)
	}
	marker := "  "
	if sel != nil && sel.Path == e.Path {
		marker = "✓ "
	}
	name := e.Name
	if !e.CanEnter() {
		name += " (" + f.bundle.T("browser.not_accessible") + ")"
	}
	line := marker + padRight(truncate(name, width-16), width-16) + "  " + count
	switch {
	case cursor:
		return styles.Selected.Render(padRight(line, width))
	case !e.CanEnter():
		return styles.FaintText.Render(line)
	default:
		return styles.Text.Render(line)
	}
}
