package pidtool

import (
	"testing"

	"github.com/bodgit/pidtool/pid"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T) *pid.Image {
	t.Helper()

	p := new(pid.Palette)
	p[1] = pid.RGB{R: 10, G: 20, B: 30}
	p[2] = pid.RGB{R: 40, G: 50, B: 60}

	return &pid.Image{
		Header: pid.Header{
			ID:     1,
			Flags:  pid.Flags(0x81), // palette and transparency
			Width:  2,
			Height: 2,
		},
		Pix:     []uint8{0, 1, 2, 1},
		Palette: p,
	}
}

func TestPreviewRoundTrip(t *testing.T) {
	m := testImage(t)

	b, err := EncodePreview(m)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	got, err := DecodePreview(b)
	require.NoError(t, err)

	want, err := m.RGBA()
	require.NoError(t, err)

	assert.Equal(t, want.Bounds(), got.Bounds())
	assert.Equal(t, want.Pix, got.Pix)
}

func TestEncodePreviewMissingPalette(t *testing.T) {
	m := testImage(t)
	m.Palette = nil

	_, err := EncodePreview(m)
	assert.ErrorIs(t, err, pid.ErrMissingPalette)
}

func TestDecodePreviewGarbage(t *testing.T) {
	_, err := DecodePreview([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.Error(t, err)
}

func TestDecodePreviewTruncated(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()

	// Compresses fine but is far too short to hold a canvas header
	_, err = DecodePreview(enc.EncodeAll([]byte{1, 2, 3}, nil))
	assert.ErrorIs(t, err, errBadPreview)
}
