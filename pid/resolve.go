package pid

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// ErrMissingPalette is returned when color resolution is requested for
// an image that carries no palette.
var ErrMissingPalette = errors.New("pid: image has no palette")

// RGB is one palette entry. Alpha is synthesized during resolution.
type RGB struct {
	R, G, B uint8
}

// Palette is the 256-entry color table trailing a palettised image.
type Palette [paletteEntries]RGB

// Image is a decoded PID container. Pix holds one palette index per
// pixel in row-major order with the origin at the top left, always
// exactly Width*Height bytes. Palette is nil when the container had
// none.
type Image struct {
	Header  Header
	Pix     []uint8
	Palette *Palette
}

// Draw resolves the palette indices to colors and writes them into
// dst, which must cover the rectangle from the origin to the image
// dimensions. Index 0 resolves to transparent black when the
// transparency flag is set; every other index takes its palette entry
// at full opacity. Each pixel is written exactly once.
func (m *Image) Draw(dst draw.Image) error {
	if m.Palette == nil {
		return ErrMissingPalette
	}

	w, h := int(m.Header.Width), int(m.Header.Height)
	transparency := m.Header.Flags.Transparency()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := m.Pix[y*w+x]

			var c color.RGBA
			if !transparency || p != 0 {
				e := m.Palette[p]
				c = color.RGBA{e.R, e.G, e.B, 0xff}
			}
			dst.Set(x, y, c)
		}
	}

	return nil
}

// RGBA resolves the image into a freshly allocated RGBA image.
func (m *Image) RGBA() (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, int(m.Header.Width), int(m.Header.Height)))
	if err := m.Draw(dst); err != nil {
		return nil, err
	}
	return dst, nil
}
