package ui

import (
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/memoryhunter/hunter/internal/search"
	"github.com/memoryhunter/hunter/internal/viewer"
)

// viewerModal shows one result with its detection tags. Moving the cursor
// over a tag highlights it on the canvas.
type viewerModal struct {
	viewer *viewer.Viewer
	card   search.Card
	cursor int

	// Last rendered preview, reused until the canvas or size changes.
	cachedFor image.Image
	cachedW   int
	cachedH   int
	cached    string
}

func newViewerModal(v *viewer.Viewer, card search.Card) *viewerModal {
	return &viewerModal{viewer: v, card: card, cursor: viewer.NoHighlight}
}

func (vm *viewerModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return vm, nil, false
	}
	n := vm.viewer.View().Parse.Count()
	switch {
	case key.Matches(km, keys.Escape):
		vm.viewer.Close()
		return vm, nil, true
	case key.Matches(km, keys.Down):
		if n > 0 {
			vm.cursor = min(vm.cursor+1, n-1)
			vm.viewer.Hover(vm.cursor)
		}
	case key.Matches(km, keys.Up):
		if n > 0 {
			vm.cursor = max(vm.cursor-1, 0)
			vm.viewer.Hover(vm.cursor)
		}
	case key.Matches(km, keys.Unhover):
		vm.cursor = viewer.NoHighlight
		vm.viewer.Unhover()
	}
	return vm, nil, false
}

func (vm *viewerModal) View(f frame) string {
	styles := f.theme.Styles()
	v := vm.viewer.View()

	imgCols := max(f.width*3/5-4, 10)
	imgRows := max(f.height-8, 4)
	infoWidth := max(f.width-imgCols-10, 20)

	var picture string
	switch {
	case v.LoadErr != nil:
		picture = styles.DangerText.Render(f.bundle.T("viewer.load_failed"))
	case !v.Loaded():
		picture = styles.MutedText.Render(f.bundle.T("viewer.loading"))
	default:
		picture = vm.preview(v.Canvas, imgCols, imgRows*2, f.theme.SurfaceAlt)
	}
	picture = lipgloss.NewStyle().Width(imgCols).Height(imgRows).Render(picture)

	var info strings.Builder
	info.WriteString(styles.Text.Bold(true).Render(truncate(v.Result.Filename, infoWidth)))
	info.WriteString("\n")
	info.WriteString(styles.SuccessText.Render(f.bundle.T("search.score", vm.card.Score)))
	info.WriteString("\n")
	info.WriteString(styles.FaintText.Render(f.bundle.T("viewer.url") + ": " + truncateMiddle(vm.card.URL, infoWidth)))
	info.WriteString("\n\n")

	info.WriteString(styles.AccentText.Bold(true).Render(f.bundle.T("viewer.objects")))
	info.WriteString("\n")
	switch v.Parse.Status {
	case viewer.Malformed:
		info.WriteString(styles.WarningText.Render(f.bundle.T("viewer.objects_malformed")))
		info.WriteString("\n")
	case viewer.Empty:
		info.WriteString(styles.MutedText.Render(f.bundle.T("viewer.no_objects")))
		info.WriteString("\n")
	default:
		for i, obj := range v.Parse.Objects {
			label := viewer.Label(obj)
			if i == v.Highlight {
				info.WriteString(styles.Selected.Render("▸ " + label))
			} else {
				info.WriteString("  " + styles.InfoText.Render(label))
			}
			info.WriteString("\n")
		}
	}

	if ocr := strings.TrimSpace(v.Result.OCRText); ocr != "" {
		info.WriteString("\n")
		info.WriteString(styles.AccentText.Bold(true).Render(f.bundle.T("viewer.ocr")))
		info.WriteString("\n")
		info.WriteString(lipgloss.NewStyle().Width(infoWidth).Render(styles.Text.Render(ocr)))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, picture, "  ",
		lipgloss.NewStyle().Width(infoWidth).Render(info.String()))
	title := styles.AccentText.Bold(true).Render(f.bundle.T("viewer.title"))
	return placeModal(f, title+"\n\n"+body, f.width-4)
}

// preview renders the canvas as half-blocks, reusing the last rendering when
// nothing changed.
func (vm *viewerModal) preview(canvas image.Image, w, h int, bg string) string {
	if canvas == vm.cachedFor && w == vm.cachedW && h == vm.cachedH {
		return vm.cached
	}
	thumb := vm.viewer.Thumbnail(w, h)
	vm.cached = halfBlocks(thumb, bg)
	vm.cachedFor, vm.cachedW, vm.cachedH = canvas, w, h
	return vm.cached
}
