package viewer

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

const (
	strokeWidth = 3
	chipPadding = 3
)

var (
	highlightColor = color.RGBA{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}
	chipTextColor  = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	labelFace      = basicfont.Face7x13
)

// Label is the text shown in an object's chip.
func Label(obj memhunter.DetectedObject) string {
	return fmt.Sprintf("%s %.0f%%", obj.Label, obj.Score*100)
}

// render draws base onto a fresh canvas and, when obj is set, the highlight
// box and label chip on top.
func render(base image.Image, obj *memhunter.DetectedObject) *image.RGBA {
	bounds := base.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), base, bounds.Min, draw.Src)
	if obj == nil {
		return canvas
	}

	box := boxRect(obj.Box, canvas.Bounds())
	if box.Empty() {
		return canvas
	}
	strokeRect(canvas, box, strokeWidth, highlightColor)
	drawChip(canvas, box.Min, Label(*obj))
	return canvas
}

func boxRect(b [4]float64, within image.Rectangle) image.Rectangle {
	r := image.Rect(int(b[0]), int(b[1]), int(b[2]), int(b[3]))
	return r.Intersect(within)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, width int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(dst, edge.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// chipRect sizes the chip to the label and places it just above anchor,
// clamped inside bounds.
func chipRect(anchor image.Point, label string, bounds image.Rectangle) image.Rectangle {
	textWidth := font.MeasureString(labelFace, label).Ceil()
	metrics := labelFace.Metrics()
	w := textWidth + 2*chipPadding
	h := metrics.Height.Ceil() + 2*chipPadding

	x := anchor.X
	y := anchor.Y - h
	if x+w > bounds.Max.X {
		x = bounds.Max.X - w
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	if y+h > bounds.Max.Y {
		y = bounds.Max.Y - h
	}
	return image.Rect(x, y, x+w, y+h).Intersect(bounds)
}

func drawChip(dst *image.RGBA, anchor image.Point, label string) {
	chip := chipRect(anchor, label, dst.Bounds())
	if chip.Empty() {
		return
	}
	draw.Draw(dst, chip, image.NewUniform(highlightColor), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(chipTextColor),
		Face: labelFace,
		Dot:  fixed.P(chip.Min.X+chipPadding, chip.Min.Y+chipPadding+labelFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(label)
}

// scaleToFit shrinks src into a w×h box keeping its aspect ratio.
func scaleToFit(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	if w <= 0 || h <= 0 || sb.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	scale := min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	dw := max(1, int(float64(sb.Dx())*scale))
	dh := max(1, int(float64(sb.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}
