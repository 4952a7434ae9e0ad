package pidtool

import (
	"encoding/binary"
	"errors"
	"image"

	"github.com/bodgit/pidtool/pid"
	"github.com/klauspost/compress/zstd"
)

// Previews are stored as the canvas wire form of the resolved image,
// compressed with zstd. Keeping the canvas layout means a viewer can
// hand the decompressed bytes straight to a host surface.

var errBadPreview = errors.New("pidtool: malformed preview")

// EncodePreview resolves m and compresses the resulting canvas buffer.
func EncodePreview(m *pid.Image) ([]byte, error) {
	c, err := pid.NewCanvasBuffer(m.Header.Width, m.Header.Height)
	if err != nil {
		return nil, err
	}
	if err := m.Draw(c); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	return enc.EncodeAll(c.Bytes(), nil), nil
}

// DecodePreview decompresses a stored preview back into an RGBA image.
func DecodePreview(b []byte) (*image.RGBA, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(b, nil)
	if err != nil {
		return nil, err
	}

	if len(raw) < 8 {
		return nil, errBadPreview
	}
	w := binary.LittleEndian.Uint32(raw[0:])
	h := binary.LittleEndian.Uint32(raw[4:])
	if uint64(len(raw)) != 8+4*uint64(w)*uint64(h) {
		return nil, errBadPreview
	}

	m := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(m.Pix, raw[8:])

	return m, nil
}
