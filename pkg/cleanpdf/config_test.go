package cleanpdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	l, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, 2480, l.Width)
	assert.Equal(t, 3508, l.Height)
	assert.Equal(t, 118, l.Margin)
	assert.Equal(t, 94, l.Spacing)
	assert.InDelta(t, 300.0/72.0, cfg.Scale(), 1e-9)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dpi", func(c *Config) { c.DPI = 0 }},
		{"NaN dpi", func(c *Config) { c.DPI = math.NaN() }},
		{"infinite dpi", func(c *Config) { c.DPI = math.Inf(1) }},
		{"unknown page size", func(c *Config) { c.PageSize = "B7" }},
		{"unknown orientation", func(c *Config) { c.Orientation = "sideways" }},
		{"negative margin", func(c *Config) { c.MarginCM = -1 }},
		{"margin too wide", func(c *Config) { c.MarginCM = 11 }},
		{"threshold too high", func(c *Config) { c.Threshold = 256 }},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }},
		{"unknown resampler", func(c *Config) { c.Resampler = "lanczos" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative page", func(c *Config) { c.FirstPage = -2 }},
		{"reversed range", func(c *Config) { c.FirstPage, c.LastPage = 5, 2 }},
		{"unknown encoding", func(c *Config) { c.Encoding = "png" }},
		{"jpeg quality", func(c *Config) { c.JPEGQuality = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())

			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestConfigLandscape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orientation = "Landscape"
	cfg.DPI = 150

	l, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, 1754, l.Width)
	assert.Equal(t, 1240, l.Height)
}
