// Package cleanpdf trims the margins off every page of a PDF and repacks the
// trimmed content onto fixed-size print pages.
//
// Pages are rasterized, cropped to their content, scaled to the printable
// width and stacked top to bottom. Rasterization and cropping run on a
// bounded worker pool; packing is sequential and always sees pages in source
// order.
package cleanpdf

import (
	"fmt"
	"runtime"

	"github.com/novvoo/go-cleanpdf/pkg/layout"
	"github.com/novvoo/go-cleanpdf/pkg/pdf"
	"github.com/novvoo/go-cleanpdf/pkg/raster"
)

// Config holds the per-deployment settings of the transform.
type Config struct {
	// DPI is the rasterization and output resolution (default 300).
	DPI float64 `mapstructure:"dpi" yaml:"dpi"`

	// PageSize names the output paper: A3, A4, A5, Letter or Legal (default A4).
	PageSize string `mapstructure:"page_size" yaml:"page_size"`

	// Orientation is portrait or landscape (default portrait).
	Orientation string `mapstructure:"orientation" yaml:"orientation"`

	// MarginCM is the blank border on every edge of an output page (default 1.0).
	MarginCM float64 `mapstructure:"margin_cm" yaml:"margin_cm"`

	// SpacingCM is the gap between stacked fragments (default 0.8).
	SpacingCM float64 `mapstructure:"spacing_cm" yaml:"spacing_cm"`

	// Threshold is the channel-mean intensity below which a pixel is
	// content, 0-255 (default 250).
	Threshold int `mapstructure:"threshold" yaml:"threshold"`

	// Resampler is the scaling filter: catmullrom, bilinear, approxbilinear
	// or nearest (default catmullrom).
	Resampler string `mapstructure:"resampler" yaml:"resampler"`

	// Workers bounds concurrent page rasterization (default runtime.NumCPU).
	Workers int `mapstructure:"workers" yaml:"workers"`

	// MaxPixels fails pages that would render larger than this (default 250e6).
	MaxPixels int64 `mapstructure:"max_pixels" yaml:"max_pixels"`

	// SkipFailedPages drops pages that cannot be rendered instead of failing
	// the whole document.
	SkipFailedPages bool `mapstructure:"skip_failed_pages" yaml:"skip_failed_pages"`

	// FirstPage and LastPage select a 1-based page range; 0 means unbounded.
	FirstPage int `mapstructure:"first_page" yaml:"first_page"`
	LastPage  int `mapstructure:"last_page" yaml:"last_page"`

	// Encoding compresses output pages as jpeg or flate (default jpeg).
	Encoding string `mapstructure:"encoding" yaml:"encoding"`

	// JPEGQuality is used with jpeg encoding, 1-100 (default 90).
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`

	// PageNumbers prints "n / N" in the bottom margin of each output page.
	PageNumbers bool `mapstructure:"page_numbers" yaml:"page_numbers"`

	// ValidateOutput checks the assembled PDF with pdfcpu (default true).
	ValidateOutput bool `mapstructure:"validate_output" yaml:"validate_output"`

	// UserPassword and OwnerPassword open encrypted input.
	UserPassword  string `mapstructure:"user_password" yaml:"user_password,omitempty"`
	OwnerPassword string `mapstructure:"owner_password" yaml:"owner_password,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DPI:            300,
		PageSize:       layout.A4.Name,
		Orientation:    string(layout.Portrait),
		MarginCM:       1.0,
		SpacingCM:      0.8,
		Threshold:      250,
		Resampler:      "catmullrom",
		Workers:        runtime.NumCPU(),
		MaxPixels:      raster.DefaultMaxPixels,
		Encoding:       string(pdf.EncodingJPEG),
		JPEGQuality:    90,
		ValidateOutput: true,
	}
}

// Validate checks the configuration for values the transform cannot use
func (c Config) Validate() error {
	if _, err := c.Layout(); err != nil {
		return err
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be within 0-255, got %d", c.Threshold)
	}
	if _, err := layout.ParseResampler(c.Resampler); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.FirstPage < 0 || c.LastPage < 0 {
		return fmt.Errorf("page range must not be negative")
	}
	if c.LastPage > 0 && c.FirstPage > c.LastPage {
		return fmt.Errorf("first page %d is after last page %d", c.FirstPage, c.LastPage)
	}
	if _, err := pdf.ParseEncoding(c.Encoding); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be within 1-100, got %d", c.JPEGQuality)
	}
	return nil
}

// Layout returns the output page geometry
func (c Config) Layout() (layout.Layout, error) {
	size, err := layout.ParsePageSize(c.PageSize)
	if err != nil {
		return layout.Layout{}, err
	}
	orientation, err := layout.ParseOrientation(c.Orientation)
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.NewLayout(size, orientation, c.DPI, c.MarginCM, c.SpacingCM)
}

// Scale is the factor from PDF points to output pixels
func (c Config) Scale() float64 {
	return c.DPI / raster.PointsPerInch
}
