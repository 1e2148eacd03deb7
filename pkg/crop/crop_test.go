package crop

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{255, 255, 255, 255},
		{0, 0, 0, 0},
		{255, 0, 0, 85},
		{255, 255, 200, 236},
		{250, 250, 251, 250},
		{250, 249, 250, 249},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Intensity(tt.r, tt.g, tt.b), "rgb(%d,%d,%d)", tt.r, tt.g, tt.b)
	}
}

func TestCropBlankPage(t *testing.T) {
	for _, bg := range []uint8{255, 252} {
		img := page(40, 30)
		fill(img, img.Bounds(), color.RGBA{bg, bg, bg, 255})
		before := append([]uint8(nil), img.Pix...)

		frag := Crop(img, DefaultThreshold)

		assert.True(t, frag.Blank)
		assert.Same(t, img, frag.Image)
		assert.Equal(t, img.Bounds(), frag.Box)
		assert.Equal(t, before, frag.Image.Pix)
	}
}

func TestCropDarkSquare(t *testing.T) {
	img := page(200, 300)
	square := image.Rect(37, 120, 91, 161)
	fill(img, square, color.RGBA{20, 20, 20, 255})

	frag := Crop(img, DefaultThreshold)

	require.False(t, frag.Blank)
	assert.Equal(t, square, frag.Box)
	assert.Equal(t, square, frag.Image.Bounds())
	assert.Equal(t, color.RGBA{20, 20, 20, 255}, frag.Image.RGBAAt(square.Max.X-1, square.Max.Y-1))
}

func TestCropIncludesBoundaryPixels(t *testing.T) {
	img := page(50, 50)
	img.SetRGBA(3, 4, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(45, 47, color.RGBA{0, 0, 0, 255})

	frag := Crop(img, DefaultThreshold)
	assert.Equal(t, image.Rect(3, 4, 46, 48), frag.Box)

	single := page(10, 10)
	single.SetRGBA(9, 9, color.RGBA{0, 0, 0, 255})
	assert.Equal(t, image.Rect(9, 9, 10, 10), Crop(single, DefaultThreshold).Box)
}

func TestCropThreshold(t *testing.T) {
	img := page(20, 20)
	img.SetRGBA(2, 2, color.RGBA{245, 245, 245, 255})
	img.SetRGBA(10, 10, color.RGBA{100, 100, 100, 255})

	assert.Equal(t, image.Rect(2, 2, 11, 11), Crop(img, 250).Box)
	assert.Equal(t, image.Rect(10, 10, 11, 11), Crop(img, 240).Box)
	assert.True(t, Crop(img, 100).Blank)
}

func TestCropUsesChannelMean(t *testing.T) {
	// luminance of pure blue is about 29, its channel mean is 85
	img := page(10, 10)
	img.SetRGBA(5, 5, color.RGBA{0, 0, 255, 255})

	assert.True(t, Crop(img, 85).Blank)
	assert.Equal(t, image.Rect(5, 5, 6, 6), Crop(img, 86).Box)
}

func TestCropIsIdempotent(t *testing.T) {
	img := page(120, 80)
	fill(img, image.Rect(10, 5, 30, 25), color.RGBA{0, 0, 0, 255})
	fill(img, image.Rect(60, 40, 100, 70), color.RGBA{200, 10, 10, 255})

	first := Crop(img, DefaultThreshold)
	second := Crop(first.Image, DefaultThreshold)

	assert.Equal(t, first.Box, second.Box)
	assert.Equal(t, first.Image.Bounds(), second.Image.Bounds())
	assert.False(t, second.Blank)
}

func TestCropDoesNotModifySource(t *testing.T) {
	img := page(30, 30)
	fill(img, image.Rect(10, 10, 20, 20), color.RGBA{0, 0, 0, 255})
	before := append([]uint8(nil), img.Pix...)

	Crop(img, DefaultThreshold)
	assert.Equal(t, before, img.Pix)
}

func TestContentBoundsEmptyImage(t *testing.T) {
	_, ok := ContentBounds(image.NewRGBA(image.Rectangle{}), DefaultThreshold)
	assert.False(t, ok)
}

func TestDetachCopiesPixels(t *testing.T) {
	img := page(40, 40)
	fill(img, image.Rect(5, 6, 15, 20), color.RGBA{0, 0, 0, 255})

	frag := Crop(img, DefaultThreshold).Detach()
	assert.Equal(t, image.Rect(5, 6, 15, 20), frag.Image.Bounds())
	assert.Equal(t, 4*10*14, len(frag.Image.Pix))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, frag.Image.RGBAAt(14, 19))

	img.SetRGBA(10, 10, color.RGBA{9, 9, 9, 255})
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, frag.Image.RGBAAt(10, 10))
}
