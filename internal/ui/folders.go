package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/memoryhunter/hunter/internal/folders"
	"github.com/memoryhunter/hunter/internal/memhunter"
)

type folderPane struct {
	cursor int
	view   folders.View
}

func (p *folderPane) clamp() {
	if p.cursor >= len(p.view.Folders) {
		p.cursor = len(p.view.Folders) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p folderPane) selected() (memhunter.Folder, bool) {
	if p.cursor < 0 || p.cursor >= len(p.view.Folders) {
		return memhunter.Folder{}, false
	}
	return p.view.Folders[p.cursor], true
}

func (m Model) handleFoldersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.folders.cursor < len(m.folders.view.Folders)-1 {
			m.folders.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.folders.cursor > 0 {
			m.folders.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.AddFolder):
		m.modal = newBrowserModal(m.ctx, m.browser)
		return m, m.run(m.browser.Open)
	case key.Matches(msg, m.keys.Reload):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.folderCtl.Load(ctx)
			return err
		})
	}

	folder, ok := m.folders.selected()
	if !ok {
		return m, nil
	}
	id := folder.ID
	switch {
	case key.Matches(msg, m.keys.RemoveFolder):
		m.modal = newConfirm("folders.remove_confirm", m.run(func(ctx context.Context) error {
			return m.folderCtl.Remove(ctx, id, false)
		}))
	case key.Matches(msg, m.keys.ScanFolder):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.folderCtl.Scan(ctx, id)
			return err
		})
	case key.Matches(msg, m.keys.IndexFolder):
		return m, m.run(func(ctx context.Context) error {
			return m.folderCtl.Index(ctx, id, false)
		})
	case key.Matches(msg, m.keys.ForceIndex):
		return m, m.run(func(ctx context.Context) error {
			return m.folderCtl.Index(ctx, id, true)
		})
	}
	return m, nil
}

func (m Model) renderFolders() string {
	styles := m.theme.Styles()
	v := m.folders.view
	height := m.contentHeight()
	width := max(m.width-4, 20)
	title := m.bundle.T("folders.title") + " · " + m.bundle.T("folders.count", len(v.Folders))

	var lines []string
	switch {
	case !v.Loaded && v.LoadErr == nil:
		lines = append(lines, styles.MutedText.Render(m.spinner.View()+" "+m.bundle.T("loading")))
	case v.LoadErr != nil && len(v.Folders) == 0:
		lines = append(lines, styles.DangerText.Render(m.bundle.T("folders.load_failed")))
	case len(v.Folders) == 0:
		lines = append(lines, styles.MutedText.Render(m.bundle.T("folders.empty")))
	default:
		rows := max(height-2, 1)
		start := 0
		if m.folders.cursor >= rows {
			start = m.folders.cursor - rows + 1
		}
		end := min(start+rows, len(v.Folders))
		for i := start; i < end; i++ {
			f := v.Folders[i]
			lines = append(lines, m.renderFolderRow(f, i == m.folders.cursor, v.Watching[f.ID], width))
		}
	}
	return m.renderBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) renderFolderRow(f memhunter.Folder, selected, watching bool, width int) string {
	styles := m.theme.Styles()
	status := m.bundle.T("folder.status." + string(f.Status))
	if !knownFolderStatus(f.Status) {
		status = m.bundle.T("folder.status.unknown")
	}
	badge := m.theme.FolderBadge(f.Status, status)
	if watching {
		badge += " " + m.spinner.View()
	}

	counts := fmt.Sprintf("%d/%d", f.IndexedCount, f.ImageCount)
	scan := m.bundle.T("folders.never_scanned")
	if ts := f.ParsedLastScan(); !ts.IsZero() {
		scan = m.bundle.T("folders.last_scan") + " " + ts.Format("2006-01-02 15:04")
	}
	name := padRight(truncate(f.Name, 20), 20)
	pathWidth := max(width-20-12-22-lipgloss.Width(badge)-8, 10)
	path := truncateMiddle(f.Path, pathWidth)

	if selected {
		return styles.Selected.Render("▸ "+name+" ") + " " + badge + " " +
			styles.Selected.Render(padRight(counts, 12)+padRight(scan, 22)+path)
	}
	return "  " + styles.Text.Bold(true).Render(name) + " " + badge + " " +
		styles.InfoText.Render(padRight(counts, 12)) +
		styles.MutedText.Render(padRight(scan, 22)) +
		styles.FaintText.Render(path)
}

func knownFolderStatus(s memhunter.FolderStatus) bool {
	switch s {
	case memhunter.FolderPending, memhunter.FolderIndexing, memhunter.FolderActive,
		memhunter.FolderPaused, memhunter.FolderError:
		return true
	}
	return false
}
