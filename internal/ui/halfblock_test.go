package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	out := halfBlocks(img, "#000000")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2, "three pixel rows need two text rows")
	for _, line := range lines {
		assert.Equal(t, 2, strings.Count(line, "▀"))
	}

	assert.Empty(t, halfBlocks(nil, "#000000"))
	assert.Empty(t, halfBlocks(image.NewRGBA(image.Rectangle{}), "#000000"))
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#ff8000", hexColor(color.RGBA{R: 255, G: 128, A: 255}))
}
