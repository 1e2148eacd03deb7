// Package crop trims blank margins off rendered pages.
//
// A pixel is foreground when the arithmetic mean of its red, green and blue
// channels is below the threshold. The mean is unweighted; switching to a
// luminance formula changes every crop box.
package crop

import (
	"image"
)

// DefaultThreshold treats everything darker than near-white as content
const DefaultThreshold uint8 = 250

// Fragment is the trimmed image of one source page
type Fragment struct {
	// Page is the zero-based index of the source page.
	Page int
	// Image shares pixels with the rendered page.
	Image *image.RGBA
	// Box is the crop rectangle in the coordinates of the rendered page.
	Box image.Rectangle
	// Blank is set when no foreground pixel was found and Image is the
	// whole page.
	Blank bool
}

// Intensity returns the floor of the mean of the three channels
func Intensity(r, g, b uint8) uint8 {
	return uint8((uint16(r) + uint16(g) + uint16(b)) / 3)
}

// ContentBounds returns the smallest rectangle enclosing every pixel whose
// intensity is below threshold. The rectangle includes its last row and
// column. ok is false when no such pixel exists.
func ContentBounds(img *image.RGBA, threshold uint8) (bounds image.Rectangle, ok bool) {
	b := img.Bounds()
	if b.Empty() {
		return b, false
	}
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X-1, y)+4]
		for i, x := 0, b.Min.X; i < len(row); i, x = i+4, x+1 {
			if Intensity(row[i], row[i+1], row[i+2]) >= threshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}

	if maxX < minX {
		return b, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Crop trims img to its content. A page without foreground pixels is kept
// whole so blank pages are never dropped. The source image is not modified.
func Crop(img *image.RGBA, threshold uint8) Fragment {
	box, ok := ContentBounds(img, threshold)
	if !ok {
		return Fragment{Image: img, Box: img.Bounds(), Blank: true}
	}
	return Fragment{
		Image: img.SubImage(box).(*image.RGBA),
		Box:   box,
	}
}

// Detach returns a copy of f whose image owns its pixels, with the same bounds
func (f Fragment) Detach() Fragment {
	b := f.Image.Bounds()
	img := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		copy(img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Min.X, y)+4*b.Dx()],
			f.Image.Pix[f.Image.PixOffset(b.Min.X, y):])
	}
	f.Image = img
	return f
}
