// Package raster renders PDF pages to opaque RGB pixel buffers
package raster

import (
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// PointsPerInch is the PDF user-space unit density
const PointsPerInch = 72.0

// DefaultMaxPixels bounds a single rendered page (about 250 megapixels)
const DefaultMaxPixels int64 = 250_000_000

// Size is a page size in PDF points
type Size struct {
	Width  float64
	Height float64
}

// Pixels returns the pixel dimensions of the page at the given scale
func (s Size) Pixels(scale float64) (int, int) {
	return int(math.Ceil(s.Width * scale)), int(math.Ceil(s.Height * scale))
}

// Source is a read-only handle to an opened PDF document.
// Page indices are zero based.
type Source interface {
	NumPages() int
	PageSize(index int) (Size, error)
	// RenderPage draws the page at dpi. The result may carry an alpha
	// channel and may differ from the nominal size by rounding.
	RenderPage(index int, dpi float64) (image.Image, error)
	Close() error
}

// Options contains options for rendering pages
type Options struct {
	// MaxPixels rejects pages whose render would exceed this many pixels.
	// Zero selects DefaultMaxPixels, a negative value disables the check.
	MaxPixels int64
}

// PageRenderer renders pages of a Source to RGB images
type PageRenderer struct {
	src     Source
	options Options
}

// NewPageRenderer creates a new page renderer
func NewPageRenderer(src Source, options Options) *PageRenderer {
	if options.MaxPixels == 0 {
		options.MaxPixels = DefaultMaxPixels
	}
	return &PageRenderer{
		src:     src,
		options: options,
	}
}

// RenderPage renders the page at index, scaling PDF points by scale.
// The returned image is exactly ceil(width*scale) by ceil(height*scale)
// pixels, fully opaque, with transparent areas flattened against white.
func (r *PageRenderer) RenderPage(ctx context.Context, index int, scale float64) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("page index %d: %w", index, err)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("invalid scale factor: %g", scale)
	}
	if index < 0 || index >= r.src.NumPages() {
		return nil, &InvalidPageError{Page: index, Err: errPageOutOfRange}
	}

	size, err := r.src.PageSize(index)
	if err != nil {
		return nil, pageError(index, err)
	}
	width, height := size.Pixels(scale)
	if width <= 0 || height <= 0 {
		return nil, &InvalidPageError{Page: index, Err: fmt.Errorf("empty page box %gx%g", size.Width, size.Height)}
	}
	if r.options.MaxPixels > 0 && int64(width)*int64(height) > r.options.MaxPixels {
		return nil, &RenderResourceError{
			Page: index,
			Err:  fmt.Errorf("%dx%d pixels exceeds limit of %d", width, height, r.options.MaxPixels),
		}
	}

	rendered, err := r.src.RenderPage(index, scale*PointsPerInch)
	if err != nil {
		return nil, pageError(index, err)
	}

	return Flatten(rendered, width, height), nil
}

// Flatten composites src over a white width x height canvas anchored at the
// top-left corner. Pixels outside src stay white, pixels of src beyond the
// canvas are dropped.
func Flatten(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	return dst
}
