package raster

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/novvoo/go-cleanpdf/pkg/pdf"
)

// FitzSource renders pages with MuPDF
type FitzSource struct {
	mu  sync.Mutex
	doc *fitz.Document

	// boxes holds exact page sizes read with pdfcpu; nil when pdfcpu
	// cannot read the document
	boxes []pdf.PageDim
}

// OpenFitz opens a PDF held in memory
func OpenFitz(data []byte) (*FitzSource, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		if doc != nil && !errors.Is(err, fitz.ErrCreateContext) {
			doc.Close()
		}
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, ErrEncrypted
		}
		return nil, fmt.Errorf("open document: %w", err)
	}

	s := &FitzSource{doc: doc}
	if boxes, err := pdf.PageBoxes(data); err == nil && len(boxes) == doc.NumPage() {
		s.boxes = boxes
	}
	return s, nil
}

// NumPages returns the number of pages in the document
func (s *FitzSource) NumPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.NumPage()
}

// PageSize returns the page bounds in points, after rotation and cropping
func (s *FitzSource) PageSize(index int) (Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bound, err := s.doc.Bound(index)
	if err != nil {
		return Size{}, fitzError(index, err)
	}

	var box *pdf.PageDim
	if index < len(s.boxes) {
		box = &s.boxes[index]
	}
	return exactSize(bound, box), nil
}

// exactSize refines MuPDF's whole-point bound with the fractional box size.
// The box is used only when it agrees with the bound to within a point,
// swapping its sides if MuPDF applied a rotation pdfcpu did not.
func exactSize(bound image.Rectangle, box *pdf.PageDim) Size {
	size := Size{Width: float64(bound.Dx()), Height: float64(bound.Dy())}
	if box == nil {
		return size
	}

	near := func(a, b float64) bool { return math.Abs(a-b) < 1 }
	switch {
	case near(box.Width, size.Width) && near(box.Height, size.Height):
		return Size{Width: box.Width, Height: box.Height}
	case near(box.Height, size.Width) && near(box.Width, size.Height):
		return Size{Width: box.Height, Height: box.Width}
	default:
		return size
	}
}

// RenderPage rasterizes the page at dpi
func (s *FitzSource) RenderPage(index int, dpi float64) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fitzError(index, err)
	}
	return img, nil
}

// Close releases the MuPDF context
func (s *FitzSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Close()
}

func fitzError(index int, err error) error {
	switch {
	case errors.Is(err, fitz.ErrCreatePixmap), errors.Is(err, fitz.ErrPixmapSamples):
		return &RenderResourceError{Page: index, Err: err}
	default:
		return &InvalidPageError{Page: index, Err: err}
	}
}
