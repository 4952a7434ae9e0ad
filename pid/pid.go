/*
Package pid implements a decoder for the PID indexed-bitmap container
format.

A PID file starts with a 32 byte little-endian header; a signed 32-bit
id, a 32-bit flag word, the unsigned 32-bit width and height, and four
signed 32-bit values that are opaque to the decoder. The header is
followed by a compressed stream of 8-bit palette indices, one per pixel
in row-major order, using one of two run-length schemes selected by the
flag word. If the palette flag is set the stream is followed by exactly
256 packed RGB triplets. There is no magic number and no trailing
checksum, so the format cannot be sniffed; callers must know they are
holding a PID file.

Pixels decode to palette indices. Resolving them to RGBA is a separate
step so that embedders can direct the output at their own buffers; see
(*Image).Draw and CanvasBuffer.
*/
package pid

// Header flag bits. Only transparency, compression and the palette bit
// alter decoding; the rest are hints recorded for the host.
const (
	flagTransparency = 1 << iota
	flagVideoMemory
	flagSystemMemory
	flagMirrorX
	flagMirrorY
	flagCompression
	flagLighting
	flagPalette
)

// Flags is the 32-bit flag word from a PID header.
type Flags uint32

// Transparency reports whether palette index 0 decodes as fully
// transparent rather than through the palette.
func (f Flags) Transparency() bool {
	return f&flagTransparency != 0
}

// PreferVideoMemory reports the video memory placement hint.
func (f Flags) PreferVideoMemory() bool {
	return f&flagVideoMemory != 0
}

// PreferSystemMemory reports the system memory placement hint.
func (f Flags) PreferSystemMemory() bool {
	return f&flagSystemMemory != 0
}

// MirroredHorizontally reports the horizontal mirror hint. The decoder
// never applies the flip.
func (f Flags) MirroredHorizontally() bool {
	return f&flagMirrorX != 0
}

// MirroredVertically reports the vertical mirror hint. The decoder
// never applies the flip.
func (f Flags) MirroredVertically() bool {
	return f&flagMirrorY != 0
}

// Compression returns which of the two pixel stream encodings the file
// uses.
func (f Flags) Compression() CompressionMethod {
	if f&flagCompression != 0 {
		return CompressionRLE
	}
	return CompressionDefault
}

// HasLighting reports whether the image has associated lighting data.
// No such data is stored in the container itself.
func (f Flags) HasLighting() bool {
	return f&flagLighting != 0
}

// HasPalette reports whether a 256-entry palette follows the pixel
// stream.
func (f Flags) HasPalette() bool {
	return f&flagPalette != 0
}

// CompressionMethod identifies one of the two pixel stream encodings.
type CompressionMethod int

const (
	// CompressionDefault encodes runs with control bytes above 192
	// followed by the repeated value; anything else is a literal
	// pixel equal to the control byte itself.
	CompressionDefault CompressionMethod = iota

	// CompressionRLE encodes runs of zero pixels with control bytes
	// above 128; control bytes up to 128 give the length of a
	// following literal sequence.
	CompressionRLE
)

func (c CompressionMethod) String() string {
	switch c {
	case CompressionDefault:
		return "default"
	case CompressionRLE:
		return "rle"
	default:
		return "unknown"
	}
}

// Header is the fixed-layout record at the front of every PID file.
// ID and UserValues are passed through untouched; their meaning is
// private to whatever produced the file.
type Header struct {
	ID         int32
	Flags      Flags
	Width      uint32
	Height     uint32
	UserValues [4]int32
}
