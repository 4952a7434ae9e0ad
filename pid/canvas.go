package pid

import (
	"encoding/binary"
	"image"
	"image/color"
)

const canvasHeaderSize = 8

// CanvasBuffer is the wire form of a resolved image as host embedders
// consume it: the width and height as little-endian 32-bit values
// followed by the pixels as R,G,B,A bytes in row-major order. It
// implements draw.Image so it can be the target of (*Image).Draw, and
// the backing bytes are handed over whole with Bytes.
type CanvasBuffer struct {
	buf  []byte
	w, h int
}

// NewCanvasBuffer returns a zeroed canvas for the given dimensions.
// Dimensions whose product exceeds DefaultMaxPixels are refused with
// ErrTooLarge.
func NewCanvasBuffer(width, height uint32) (*CanvasBuffer, error) {
	if uint64(width)*uint64(height) > DefaultMaxPixels {
		return nil, ErrTooLarge
	}

	c := &CanvasBuffer{
		buf: make([]byte, canvasHeaderSize+4*int(width)*int(height)),
		w:   int(width),
		h:   int(height),
	}
	binary.LittleEndian.PutUint32(c.buf[0:], width)
	binary.LittleEndian.PutUint32(c.buf[4:], height)

	return c, nil
}

// ColorModel implements image.Image.
func (c *CanvasBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (c *CanvasBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.w, c.h)
}

// At implements image.Image.
func (c *CanvasBuffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(c.Bounds())) {
		return color.RGBA{}
	}
	i := c.offset(x, y)
	return color.RGBA{c.buf[i], c.buf[i+1], c.buf[i+2], c.buf[i+3]}
}

// Set implements draw.Image.
func (c *CanvasBuffer) Set(x, y int, col color.Color) {
	if !(image.Point{x, y}.In(c.Bounds())) {
		return
	}
	v := color.RGBAModel.Convert(col).(color.RGBA)
	i := c.offset(x, y)
	c.buf[i], c.buf[i+1], c.buf[i+2], c.buf[i+3] = v.R, v.G, v.B, v.A
}

// Bytes returns the backing buffer, header included. Ownership passes
// to the caller; the canvas must not be written to afterwards.
func (c *CanvasBuffer) Bytes() []byte {
	return c.buf
}

func (c *CanvasBuffer) offset(x, y int) int {
	return canvasHeaderSize + 4*(y*c.w+x)
}
