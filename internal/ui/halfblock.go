package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlocks renders img with one "▀" per two vertical pixels: the glyph's
// foreground is the upper pixel and its background the lower one. An odd last
// row is drawn against bg.
func halfBlocks(img image.Image, bg string) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return ""
	}
	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			out.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(img.At(x, y))))
			if y+1 < b.Max.Y {
				style = style.Background(lipgloss.Color(hexColor(img.At(x, y+1))))
			} else {
				style = style.Background(lipgloss.Color(bg))
			}
			out.WriteString(style.Render("▀"))
		}
	}
	return out.String()
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
