package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayoutA4(t *testing.T) {
	l, err := NewLayout(A4, Portrait, 300, 1.0, 0.8)
	require.NoError(t, err)

	assert.Equal(t, 2480, l.Width)
	assert.Equal(t, 3508, l.Height)
	assert.Equal(t, 118, l.Margin)
	assert.Equal(t, 94, l.Spacing)
	assert.Equal(t, 2480-236, l.ContentWidth())
}

func TestNewLayoutLandscape(t *testing.T) {
	l, err := NewLayout(A4, Landscape, 300, 1.0, 0.8)
	require.NoError(t, err)

	assert.Equal(t, 3508, l.Width)
	assert.Equal(t, 2480, l.Height)
}

func TestNewLayoutScalesWithDPI(t *testing.T) {
	low, err := NewLayout(A4, Portrait, 150, 1.0, 0.8)
	require.NoError(t, err)
	high, err := NewLayout(A4, Portrait, 300, 1.0, 0.8)
	require.NoError(t, err)

	assert.InDelta(t, float64(high.Margin)/high.DPI, float64(low.Margin)/low.DPI, 1/low.DPI)
	assert.InDelta(t, float64(high.Width)/high.DPI, float64(low.Width)/low.DPI, 1/low.DPI)
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		name      string
		dpi       float64
		margin    float64
		spacing   float64
		wantError string
	}{
		{"zero dpi", 0, 1, 1, "dpi"},
		{"NaN dpi", math.NaN(), 1, 1, "dpi"},
		{"infinite dpi", math.Inf(1), 1, 1, "dpi"},
		{"NaN margin", 300, math.NaN(), 1, "negative"},
		{"infinite spacing", 300, 1, math.Inf(1), "finite"},
		{"negative margin", 300, -1, 1, "negative"},
		{"negative spacing", 300, 1, -1, "negative"},
		{"margin eats page", 300, 11, 1, "no room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(A4, Portrait, tt.dpi, tt.margin, tt.spacing)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestParsePageSize(t *testing.T) {
	size, err := ParsePageSize("letter")
	require.NoError(t, err)
	assert.Equal(t, Letter, size)

	size, err = ParsePageSize("A4")
	require.NoError(t, err)
	assert.Equal(t, A4, size)

	_, err = ParsePageSize("B5")
	assert.Error(t, err)
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation("Landscape")
	require.NoError(t, err)
	assert.Equal(t, Landscape, o)

	_, err = ParseOrientation("diagonal")
	assert.Error(t, err)
}

func TestUnitConversions(t *testing.T) {
	assert.Equal(t, 118, CentimetersToPixels(1.0, 300))
	assert.Equal(t, 94, CentimetersToPixels(0.8, 300))
	assert.Equal(t, 28, CentimetersToPixels(1.0, 72))
	assert.Equal(t, 595, MillimetersToPixels(210, 72))
	assert.Equal(t, 842, MillimetersToPixels(297, 72))
}
