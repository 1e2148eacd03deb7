package cleanpdf

import (
	"bytes"
	"context"
	"image"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novvoo/go-cleanpdf/pkg/pdf"
	"github.com/novvoo/go-cleanpdf/pkg/raster"
)

// sourcePDF writes pages as a PDF at 72 DPI, one point per pixel
func sourcePDF(t *testing.T, pages ...*image.RGBA) []byte {
	t.Helper()
	data, err := pdf.Assemble(pages, pdf.WriterOptions{DPI: 72, Encoding: pdf.EncodingFlate})
	require.NoError(t, err)
	return data
}

func TestProcessRoundTrip(t *testing.T) {
	input := sourcePDF(t,
		sheet(300, 400, image.Rect(40, 60, 260, 160)),
		sheet(300, 400, image.Rect(10, 300, 290, 390)),
		sheet(300, 400, image.Rect(100, 100, 200, 200)),
	)

	cfg := testConfig()
	cfg.Workers = 2
	p, err := New(cfg)
	require.NoError(t, err)

	out, report, err := p.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 3, report.SourcePages)

	src, err := raster.OpenFitz(out)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, report.OutputPages, src.NumPages())
	size, err := src.PageSize(0)
	require.NoError(t, err)
	assert.Equal(t, raster.Size{Width: 595, Height: 842}, size)
}

func TestProcessEncryptedInput(t *testing.T) {
	plain := sourcePDF(t, sheet(100, 100, image.Rect(10, 10, 90, 40)))

	api.DisableConfigDir()
	var encrypted bytes.Buffer
	conf := model.NewAESConfiguration("secret", "owner", 256)
	require.NoError(t, api.Encrypt(bytes.NewReader(plain), &encrypted, conf))

	p, err := New(testConfig())
	require.NoError(t, err)
	_, _, err = p.Process(context.Background(), encrypted.Bytes())
	assert.ErrorIs(t, err, raster.ErrEncrypted)

	cfg := testConfig()
	cfg.UserPassword = "secret"
	p, err = New(cfg)
	require.NoError(t, err)

	out, report, err := p.Process(context.Background(), encrypted.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, report.OutputPages)
	assert.NotEmpty(t, out)
}
