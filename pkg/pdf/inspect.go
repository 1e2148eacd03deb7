package pdf

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// newConfiguration returns a pdfcpu configuration that never touches the
// user's pdfcpu config directory
func newConfiguration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// PageDim is a page size in points
type PageDim struct {
	Width  float64
	Height float64
}

// Info describes a PDF
type Info struct {
	Pages int
	Dims  []PageDim
}

// Inspect reads the page count and page sizes of a PDF
func Inspect(data []byte) (*Info, error) {
	conf := newConfiguration()

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("read page dimensions: %w", err)
	}

	info := &Info{Pages: len(dims)}
	for _, d := range dims {
		info.Dims = append(info.Dims, PageDim{Width: d.Width, Height: d.Height})
	}
	return info, nil
}

// PageBoxes returns the visible area of every page in points: the crop box,
// or the media box when there is none, with the page rotation applied
func PageBoxes(data []byte) ([]PageDim, error) {
	ctx, err := api.ReadAndValidate(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read page boxes: %w", err)
	}

	pbs, err := ctx.PageBoundaries(nil)
	if err != nil {
		return nil, fmt.Errorf("read page boxes: %w", err)
	}

	dims := make([]PageDim, len(pbs))
	for i, pb := range pbs {
		box := pb.CropBox()
		if box == nil {
			return nil, fmt.Errorf("page %d has no media box", i+1)
		}
		d := PageDim{Width: box.Width(), Height: box.Height()}
		if pb.Rot%180 != 0 {
			d.Width, d.Height = d.Height, d.Width
		}
		dims[i] = d
	}
	return dims, nil
}

// Validate checks data against the PDF specification in pdfcpu's relaxed mode
func Validate(data []byte) error {
	if err := api.Validate(bytes.NewReader(data), newConfiguration()); err != nil {
		return fmt.Errorf("validate pdf: %w", err)
	}
	return nil
}

// Decrypt removes encryption from data using either password
func Decrypt(data []byte, userPassword, ownerPassword string) ([]byte, error) {
	conf := newConfiguration()
	conf.UserPW = userPassword
	conf.OwnerPW = ownerPassword

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(data), &out, conf); err != nil {
		return nil, fmt.Errorf("decrypt pdf: %w", err)
	}
	return out.Bytes(), nil
}
