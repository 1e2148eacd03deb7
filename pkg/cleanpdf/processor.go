package cleanpdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/novvoo/go-cleanpdf/pkg/crop"
	"github.com/novvoo/go-cleanpdf/pkg/layout"
	"github.com/novvoo/go-cleanpdf/pkg/pdf"
	"github.com/novvoo/go-cleanpdf/pkg/raster"
)

// Producer is written to the Info dictionary of every output document
const Producer = "go-cleanpdf"

// OpenFunc opens a rasterizable view of a PDF held in memory
type OpenFunc func(data []byte) (raster.Source, error)

// OpenFitz opens documents with MuPDF
func OpenFitz(data []byte) (raster.Source, error) {
	src, err := raster.OpenFitz(data)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Report summarises one run.
type Report struct {
	SourcePages  int
	Selected     int
	SkippedPages []int // zero-based indices of pages dropped after a render failure
	OutputPages  int
	OutputBytes  int
}

// Processor runs the whole transform for one document at a time. A
// Processor has no mutable state and may be shared between goroutines.
type Processor struct {
	cfg    Config
	layout layout.Layout
	packer *layout.Packer
	open   OpenFunc
	log    logrus.FieldLogger
}

// Option customises a Processor
type Option func(*Processor)

// WithOpener replaces the MuPDF backend
func WithOpener(open OpenFunc) Option {
	return func(p *Processor) { p.open = open }
}

// WithLogger sets the logger. The default, and nil, discard everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Processor) { p.log = log }
}

// New validates cfg and creates a Processor
func New(cfg Config, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	resampler, err := layout.ParseResampler(cfg.Resampler)
	if err != nil {
		return nil, err
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	p := &Processor{
		cfg:    cfg,
		layout: l,
		packer: layout.NewPacker(l, resampler),
		open:   OpenFitz,
		log:    quiet,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = quiet
	}
	return p, nil
}

// Process converts a PDF into its margin-trimmed, repacked form. It fails
// with pdf.ErrEmptyDocument when no page survives, and never returns a
// partial document.
func (p *Processor) Process(ctx context.Context, data []byte) ([]byte, *Report, error) {
	pages, report, err := p.Pack(ctx, data)
	if err != nil {
		return nil, report, err
	}

	if p.cfg.PageNumbers {
		if err := layout.NumberPages(pages, p.layout); err != nil {
			return nil, report, err
		}
	}

	images := make([]*image.RGBA, len(pages))
	for i, page := range pages {
		images[i] = page.Image
	}

	out, err := pdf.Assemble(images, pdf.WriterOptions{
		DPI:         p.cfg.DPI,
		Encoding:    pdf.Encoding(p.cfg.Encoding),
		JPEGQuality: p.cfg.JPEGQuality,
		Producer:    Producer,
	})
	if err != nil {
		return nil, report, err
	}

	if p.cfg.ValidateOutput {
		if err := pdf.Validate(out); err != nil {
			return nil, report, err
		}
	}

	report.OutputBytes = len(out)
	p.log.WithFields(logrus.Fields{
		"source_pages": report.SourcePages,
		"output_pages": report.OutputPages,
		"skipped":      len(report.SkippedPages),
		"size":         humanize.Bytes(uint64(len(out))),
	}).Info("Document assembled")

	return out, report, nil
}

// Pack rasterizes, crops and lays out the selected pages without encoding
// the result.
func (p *Processor) Pack(ctx context.Context, data []byte) ([]*layout.Canvas, *Report, error) {
	report := &Report{}
	if len(data) == 0 {
		return nil, report, errors.New("empty input")
	}

	src, err := p.openSource(data)
	if err != nil {
		return nil, report, err
	}
	defer src.Close()

	report.SourcePages = src.NumPages()
	indices := p.selectPages(report.SourcePages)
	report.Selected = len(indices)

	p.log.WithFields(logrus.Fields{
		"pages":    report.SourcePages,
		"selected": len(indices),
		"dpi":      p.cfg.DPI,
		"size":     humanize.Bytes(uint64(len(data))),
	}).Debug("Source opened")

	fragments, skipped, err := p.fragments(ctx, data, src, indices)
	report.SkippedPages = skipped
	if err != nil {
		return nil, report, err
	}

	pages := p.packer.Pack(fragments)
	report.OutputPages = len(pages)
	if len(pages) == 0 {
		return nil, report, pdf.ErrEmptyDocument
	}
	return pages, report, nil
}

// openSource opens data, decrypting it first when it is protected and a
// password is configured
func (p *Processor) openSource(data []byte) (raster.Source, error) {
	src, err := p.open(data)
	if !errors.Is(err, raster.ErrEncrypted) {
		return src, err
	}
	if p.cfg.UserPassword == "" && p.cfg.OwnerPassword == "" {
		return nil, err
	}

	p.log.Debug("Decrypting source document")
	plain, decErr := pdf.Decrypt(data, p.cfg.UserPassword, p.cfg.OwnerPassword)
	if decErr != nil {
		return nil, decErr
	}
	return p.open(plain)
}

// selectPages returns the zero-based indices within the configured range
func (p *Processor) selectPages(n int) []int {
	first, last := 1, n
	if p.cfg.FirstPage > 0 {
		first = p.cfg.FirstPage
	}
	if p.cfg.LastPage > 0 && p.cfg.LastPage < last {
		last = p.cfg.LastPage
	}

	var indices []int
	for page := first; page <= last; page++ {
		indices = append(indices, page-1)
	}
	return indices
}

type pageResult struct {
	fragment crop.Fragment
	ok       bool
}

// fragments renders and crops the pages at indices using up to
// cfg.Workers goroutines. Each extra worker opens its own Source from data.
// Results come back in the order of indices.
func (p *Processor) fragments(ctx context.Context, data []byte, src raster.Source, indices []int) ([]crop.Fragment, []int, error) {
	results := make([]pageResult, len(indices))
	skipped := make([]bool, len(indices))

	workers := p.cfg.Workers
	if workers > len(indices) {
		workers = len(indices)
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range indices {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			s := src
			if w > 0 {
				var err error
				if s, err = p.openSource(data); err != nil {
					return err
				}
				defer s.Close()
			}
			renderer := raster.NewPageRenderer(s, raster.Options{MaxPixels: p.cfg.MaxPixels})

			for i := range jobs {
				frag, err := p.fragment(gctx, renderer, indices[i])
				if err != nil {
					if p.cfg.SkipFailedPages && raster.IsPageError(err) {
						p.log.WithError(err).WithField("page", indices[i]+1).Warn("Skipping page")
						skipped[i] = true
						continue
					}
					return err
				}
				results[i] = pageResult{fragment: frag, ok: true}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var fragments []crop.Fragment
	var skippedPages []int
	for i, r := range results {
		if r.ok {
			fragments = append(fragments, r.fragment)
		}
		if skipped[i] {
			skippedPages = append(skippedPages, indices[i])
		}
	}
	return fragments, skippedPages, nil
}

// fragment renders one page and trims it
func (p *Processor) fragment(ctx context.Context, renderer *raster.PageRenderer, index int) (crop.Fragment, error) {
	img, err := renderer.RenderPage(ctx, index, p.cfg.Scale())
	if err != nil {
		return crop.Fragment{}, err
	}

	frag := crop.Crop(img, uint8(p.cfg.Threshold))
	if !frag.Blank {
		frag = frag.Detach()
	}
	frag.Page = index

	p.log.WithFields(logrus.Fields{
		"page":  index + 1,
		"box":   frag.Box.String(),
		"blank": frag.Blank,
	}).Debug("Page cropped")
	return frag, nil
}
