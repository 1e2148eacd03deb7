// Package layout stacks cropped page fragments onto fixed-size output pages.
package layout

import (
	"fmt"
	"math"
	"strings"
)

// PageSize is a physical paper size in millimetres, portrait orientation
type PageSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// Standard paper sizes
var (
	A3     = PageSize{"A3", 297, 420}
	A4     = PageSize{"A4", 210, 297}
	A5     = PageSize{"A5", 148, 210}
	Letter = PageSize{"Letter", 215.9, 279.4}
	Legal  = PageSize{"Legal", 215.9, 355.6}
)

var pageSizes = []PageSize{A3, A4, A5, Letter, Legal}

// ParsePageSize looks up a paper size by name, case insensitively
func ParsePageSize(name string) (PageSize, error) {
	for _, size := range pageSizes {
		if strings.EqualFold(size.Name, name) {
			return size, nil
		}
	}
	return PageSize{}, fmt.Errorf("unknown page size: %q", name)
}

// Orientation of the output page
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ParseOrientation validates an orientation name
func ParseOrientation(name string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(name)); o {
	case Portrait, Landscape:
		return o, nil
	default:
		return "", fmt.Errorf("unknown orientation: %q", name)
	}
}

// Layout is the pixel geometry of an output page
type Layout struct {
	Width   int
	Height  int
	Margin  int
	Spacing int
	DPI     float64
}

// CentimetersToPixels converts a length to pixels at dpi
func CentimetersToPixels(cm, dpi float64) int {
	return int(math.Round(cm * dpi / 2.54))
}

// MillimetersToPixels converts a length to pixels at dpi
func MillimetersToPixels(mm, dpi float64) int {
	return int(math.Round(mm / 25.4 * dpi))
}

// NewLayout computes the page geometry for size at dpi. Margin and spacing
// are given in centimetres so they stay the same physical length at any
// resolution.
func NewLayout(size PageSize, orientation Orientation, dpi, marginCM, spacingCM float64) (Layout, error) {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return Layout{}, fmt.Errorf("dpi must be positive and finite, got %g", dpi)
	}
	if !(marginCM >= 0 && spacingCM >= 0) || math.IsInf(marginCM, 0) || math.IsInf(spacingCM, 0) {
		return Layout{}, fmt.Errorf("margin and spacing must be finite and not negative")
	}

	l := Layout{
		Width:   MillimetersToPixels(size.WidthMM, dpi),
		Height:  MillimetersToPixels(size.HeightMM, dpi),
		Margin:  CentimetersToPixels(marginCM, dpi),
		Spacing: CentimetersToPixels(spacingCM, dpi),
		DPI:     dpi,
	}
	if orientation == Landscape {
		l.Width, l.Height = l.Height, l.Width
	}
	if l.ContentWidth() <= 0 || l.Height-2*l.Margin <= 0 {
		return Layout{}, fmt.Errorf("margin %gcm leaves no room on a %s page", marginCM, size.Name)
	}
	return l, nil
}

// ContentWidth is the width every fragment is scaled to
func (l Layout) ContentWidth() int {
	return l.Width - 2*l.Margin
}
