// Package pdf writes raster pages into PDF files and inspects PDFs with pdfcpu
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zlib"
)

// ErrEmptyDocument is returned when there are no pages to write
var ErrEmptyDocument = errors.New("no pages to assemble")

// Encoding selects how page images are compressed
type Encoding string

const (
	EncodingJPEG  Encoding = "jpeg"
	EncodingFlate Encoding = "flate"
)

// ParseEncoding validates an encoding name
func ParseEncoding(name string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(name)); e {
	case EncodingJPEG, EncodingFlate:
		return e, nil
	default:
		return "", fmt.Errorf("unknown image encoding: %q", name)
	}
}

// WriterOptions contains options for writing image pages
type WriterOptions struct {
	DPI         float64  // Resolution the images were produced at (default 300)
	Encoding    Encoding // Image compression (default jpeg)
	JPEGQuality int      // 1-100 (default 90)
	Producer    string
}

// ImageWriter builds a PDF with one full-page image per page
type ImageWriter struct {
	options WriterOptions
	pages   []imagePage
}

type imagePage struct {
	width  float64
	height float64
	pixelW int
	pixelH int
	filter string
	data   []byte
}

// NewImageWriter creates a new image writer
func NewImageWriter(options WriterOptions) *ImageWriter {
	if options.DPI == 0 {
		options.DPI = 300
	}
	if options.Encoding == "" {
		options.Encoding = EncodingJPEG
	}
	if options.JPEGQuality == 0 {
		options.JPEGQuality = 90
	}
	return &ImageWriter{options: options}
}

// NumPages returns the number of pages added so far
func (w *ImageWriter) NumPages() int {
	return len(w.pages)
}

// AddImage appends a page showing img. The page measures the image's pixel
// size at the writer's DPI.
func (w *ImageWriter) AddImage(img *image.RGBA) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("page %d: empty image", len(w.pages)+1)
	}

	page := imagePage{
		width:  float64(b.Dx()) * 72 / w.options.DPI,
		height: float64(b.Dy()) * 72 / w.options.DPI,
		pixelW: b.Dx(),
		pixelH: b.Dy(),
	}

	var buf bytes.Buffer
	switch w.options.Encoding {
	case EncodingFlate:
		if err := writeFlateRGB(&buf, img); err != nil {
			return fmt.Errorf("page %d: %w", len(w.pages)+1, err)
		}
		page.filter = "FlateDecode"
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: w.options.JPEGQuality}); err != nil {
			return fmt.Errorf("page %d: %w", len(w.pages)+1, err)
		}
		page.filter = "DCTDecode"
	}
	page.data = buf.Bytes()

	w.pages = append(w.pages, page)
	return nil
}

// writeFlateRGB compresses the RGB samples of img, dropping alpha
func writeFlateRGB(out io.Writer, img *image.RGBA) error {
	zw, err := zlib.NewWriterLevel(out, zlib.DefaultCompression)
	if err != nil {
		return err
	}

	b := img.Bounds()
	row := make([]byte, 3*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		pix := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			copy(row[3*x:3*x+3], pix[4*x:4*x+3])
		}
		if _, err := zw.Write(row); err != nil {
			return err
		}
	}
	return zw.Close()
}

// Write writes the PDF to the output
func (w *ImageWriter) Write(output io.Writer) error {
	if len(w.pages) == 0 {
		return ErrEmptyDocument
	}

	var buf bytes.Buffer

	// Write header
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, 0, 3+3*len(w.pages))

	// Object 1: Catalog
	offsets = append(offsets, buf.Len())
	buf.WriteString("1 0 obj\n")
	buf.WriteString("<< /Type /Catalog /Pages 2 0 R >>\n")
	buf.WriteString("endobj\n")

	// Object 2: Pages
	offsets = append(offsets, buf.Len())
	buf.WriteString("2 0 obj\n")
	buf.WriteString("<< /Type /Pages /Kids [")
	for i := range w.pages {
		if i > 0 {
			buf.WriteString(" ")
		}
		fmt.Fprintf(&buf, "%d 0 R", 4+i*3)
	}
	fmt.Fprintf(&buf, "] /Count %d >>\n", len(w.pages))
	buf.WriteString("endobj\n")

	// Object 3: Info
	offsets = append(offsets, buf.Len())
	buf.WriteString("3 0 obj\n")
	buf.WriteString("<< ")
	if w.options.Producer != "" {
		fmt.Fprintf(&buf, "/Producer (%s) ", escapeString(w.options.Producer))
	}
	fmt.Fprintf(&buf, "/CreationDate (D:%s) >>\n", time.Now().UTC().Format("20060102150405Z"))
	buf.WriteString("endobj\n")

	// Page, contents and image objects
	objNum := 4
	for _, page := range w.pages {
		contents := fmt.Sprintf("q\n%.4f 0 0 %.4f 0 0 cm\n/Im0 Do\nQ\n", page.width, page.height)

		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n", objNum)
		fmt.Fprintf(&buf, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.4f %.4f]", page.width, page.height)
		fmt.Fprintf(&buf, " /Resources << /XObject << /Im0 %d 0 R >> >>", objNum+2)
		fmt.Fprintf(&buf, " /Contents %d 0 R >>\n", objNum+1)
		buf.WriteString("endobj\n")

		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n", objNum+1)
		fmt.Fprintf(&buf, "<< /Length %d >>\n", len(contents))
		buf.WriteString("stream\n")
		buf.WriteString(contents)
		buf.WriteString("\nendstream\n")
		buf.WriteString("endobj\n")

		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n", objNum+2)
		fmt.Fprintf(&buf, "<< /Type /XObject /Subtype /Image /Width %d /Height %d", page.pixelW, page.pixelH)
		fmt.Fprintf(&buf, " /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /%s /Length %d >>\n", page.filter, len(page.data))
		buf.WriteString("stream\n")
		buf.Write(page.data)
		buf.WriteString("\nendstream\n")
		buf.WriteString("endobj\n")

		objNum += 3
	}

	// Write xref
	xrefOffset := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}

	// Write trailer
	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d /Root 1 0 R /Info 3 0 R >>\n", len(offsets)+1)
	buf.WriteString("startxref\n")
	fmt.Fprintf(&buf, "%d\n", xrefOffset)
	buf.WriteString("%%EOF\n")

	_, err := output.Write(buf.Bytes())
	return err
}

// Assemble writes images as consecutive pages of a new PDF held in memory
func Assemble(images []*image.RGBA, options WriterOptions) ([]byte, error) {
	if len(images) == 0 {
		return nil, ErrEmptyDocument
	}

	w := NewImageWriter(options)
	for _, img := range images {
		if err := w.AddImage(img); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := w.Write(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// escapeString escapes a PDF literal string
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
