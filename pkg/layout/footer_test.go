package layout

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inked(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				n++
			}
		}
	}
	return n
}

func TestNumberPagesDrawsInBottomMargin(t *testing.T) {
	l, err := NewLayout(A5, Portrait, 150, 1.5, 0.5)
	require.NoError(t, err)

	pages := []*Canvas{NewCanvas(l), NewCanvas(l)}
	require.NoError(t, NumberPages(pages, l))

	footer := image.Rect(0, l.Height-l.Margin, l.Width, l.Height)
	body := image.Rect(0, 0, l.Width, l.Height-l.Margin)
	for _, page := range pages {
		assert.Positive(t, inked(page.Image, footer))
		assert.Zero(t, inked(page.Image, body))
	}
}

func TestNumberPagesNoCanvases(t *testing.T) {
	assert.NoError(t, NumberPages(nil, testLayout))
}
