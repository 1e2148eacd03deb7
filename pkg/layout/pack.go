package layout

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/novvoo/go-cleanpdf/pkg/crop"
)

// ParseResampler maps a filter name to an interpolator
func ParseResampler(name string) (draw.Interpolator, error) {
	switch strings.ToLower(name) {
	case "", "catmullrom":
		return draw.CatmullRom, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "approxbilinear":
		return draw.ApproxBiLinear, nil
	case "nearest":
		return draw.NearestNeighbor, nil
	default:
		return nil, fmt.Errorf("unknown resampler: %q", name)
	}
}

// Placement records where a fragment was drawn. Rect is the unclipped
// destination, so it may extend past the page for over-height fragments.
type Placement struct {
	Page int
	Rect image.Rectangle
}

// Canvas is one output page
type Canvas struct {
	Image      *image.RGBA
	Placements []Placement
}

// NewCanvas allocates a white page
func NewCanvas(l Layout) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return &Canvas{Image: img}
}

// PackerState is the open canvas and the top edge of the next fragment
type PackerState struct {
	Canvas  *Canvas
	CursorY int
}

// Packer scales fragments to the content width and stacks them top to
// bottom, starting a new page when the next fragment does not fit
type Packer struct {
	layout    Layout
	resampler draw.Interpolator
}

// NewPacker creates a packer. A nil resampler selects Catmull-Rom.
func NewPacker(l Layout, resampler draw.Interpolator) *Packer {
	if resampler == nil {
		resampler = draw.CatmullRom
	}
	return &Packer{layout: l, resampler: resampler}
}

// Pack lays out fragments in order. It returns no canvases when there are no
// fragments.
func (p *Packer) Pack(fragments []crop.Fragment) []*Canvas {
	if len(fragments) == 0 {
		return nil
	}

	var pages []*Canvas
	state := p.open()
	for _, frag := range fragments {
		var closed *Canvas
		state, closed = p.Place(state, frag)
		if closed != nil {
			pages = append(pages, closed)
		}
	}
	return append(pages, state.Canvas)
}

// Place draws frag onto the open canvas. When the fragment would cross the
// bottom margin of a canvas that already holds content, that canvas is
// returned as closed and the fragment goes on a fresh one.
func (p *Packer) Place(state PackerState, frag crop.Fragment) (PackerState, *Canvas) {
	w, h := p.ScaledSize(frag.Image.Bounds())

	var closed *Canvas
	if state.CursorY+h+p.layout.Margin > p.layout.Height && len(state.Canvas.Placements) > 0 {
		closed = state.Canvas
		state = p.open()
	}

	dr := image.Rect(p.layout.Margin, state.CursorY, p.layout.Margin+w, state.CursorY+h)
	p.resampler.Scale(state.Canvas.Image, dr, frag.Image, frag.Image.Bounds(), draw.Src, nil)
	state.Canvas.Placements = append(state.Canvas.Placements, Placement{Page: frag.Page, Rect: dr})
	state.CursorY += h + p.layout.Spacing

	return state, closed
}

// ScaledSize returns the size of a fragment scaled to the content width,
// keeping its aspect ratio
func (p *Packer) ScaledSize(bounds image.Rectangle) (int, int) {
	w := p.layout.ContentWidth()
	if bounds.Dx() <= 0 {
		return w, 1
	}
	scale := float64(w) / float64(bounds.Dx())
	h := int(float64(bounds.Dy()) * scale)
	if h < 1 {
		h = 1
	}
	return w, h
}

func (p *Packer) open() PackerState {
	return PackerState{Canvas: NewCanvas(p.layout), CursorY: p.layout.Margin}
}
