package layout

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FooterFontSize is the page number size in points
const FooterFontSize = 9.0

var footerColor = color.RGBA{96, 96, 96, 255}

// NumberPages writes "n / N" centred in the bottom margin of every canvas
func NumberPages(pages []*Canvas, l Layout) error {
	ttf, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse footer font: %w", err)
	}

	face := truetype.NewFace(ttf, &truetype.Options{
		Size: FooterFontSize,
		DPI:  l.DPI,
	})
	defer face.Close()

	ascent := face.Metrics().Ascent.Ceil()
	baseline := l.Height - (l.Margin-ascent)/2

	for i, page := range pages {
		label := fmt.Sprintf("%d / %d", i+1, len(pages))
		width := font.MeasureString(face, label).Ceil()

		c := freetype.NewContext()
		c.SetDPI(l.DPI)
		c.SetFont(ttf)
		c.SetFontSize(FooterFontSize)
		c.SetClip(page.Image.Bounds())
		c.SetDst(page.Image)
		c.SetSrc(image.NewUniform(footerColor))

		pt := freetype.Pt((l.Width-width)/2, baseline)
		if _, err := c.DrawString(label, pt); err != nil {
			return fmt.Errorf("draw page number %d: %w", i+1, err)
		}
	}
	return nil
}
