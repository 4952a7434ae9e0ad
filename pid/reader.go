package pid

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	// ErrNotEnough is returned when the input ends before the
	// header, pixel stream or palette is complete.
	ErrNotEnough = errors.New("pid: not enough image data")

	// ErrTooLarge is returned when the header declares more pixels
	// than the decoder is prepared to allocate.
	ErrTooLarge = errors.New("pid: image dimensions exceed pixel limit")
)

const (
	headerSize     = 32
	paletteEntries = 256
	paletteSize    = paletteEntries * 3

	// DefaultMaxPixels bounds Width*Height for the package-level
	// decode functions. Embedders with small fixed canvases should
	// lower it through Decoder.
	DefaultMaxPixels = 1 << 24
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	maxPixels int

	header  Header
	pix     []uint8
	palette *Palette

	tmp [4]byte
}

func (d *decoder) readByte() (byte, error) {
	if err := readFull(d.r, d.tmp[:1]); err != nil {
		return 0, err
	}
	return d.tmp[0], nil
}

func (d *decoder) readUint32() (uint32, error) {
	if err := readFull(d.r, d.tmp[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(d.tmp[:4]), nil
}

func (d *decoder) readInt32() (int32, error) {
	v, err := d.readUint32()
	return int32(v), err
}

func (d *decoder) readHeader() (err error) {
	if d.header.ID, err = d.readInt32(); err != nil {
		return
	}
	var flags uint32
	if flags, err = d.readUint32(); err != nil {
		return
	}
	d.header.Flags = Flags(flags)
	if d.header.Width, err = d.readUint32(); err != nil {
		return
	}
	if d.header.Height, err = d.readUint32(); err != nil {
		return
	}
	for i := range d.header.UserValues {
		if d.header.UserValues[i], err = d.readInt32(); err != nil {
			return
		}
	}
	return
}

// decodeDefault expands the scheme where control bytes above 192 are
// followed by a value to repeat and anything else is a literal pixel.
// Runs are cut short at count rather than overrunning it.
func (d *decoder) decodeDefault(count int) error {
	for pixel := 0; pixel < count; {
		a, err := d.readByte()
		if err != nil {
			return err
		}
		if a > 192 {
			b, err := d.readByte()
			if err != nil {
				return err
			}
			for n := int(a) - 192; n > 0 && pixel < count; n-- {
				d.pix[pixel] = b
				pixel++
			}
		} else {
			d.pix[pixel] = a
			pixel++
		}
	}
	return nil
}

// decodeRLE expands the scheme where control bytes above 128 encode a
// run of zero pixels and the rest give the length of a literal
// sequence. A literal cut short at count leaves its remaining source
// bytes unconsumed.
func (d *decoder) decodeRLE(count int) error {
	for pixel := 0; pixel < count; {
		a, err := d.readByte()
		if err != nil {
			return err
		}
		if a > 128 {
			for n := int(a) - 128; n > 0 && pixel < count; n-- {
				d.pix[pixel] = 0
				pixel++
			}
		} else {
			for n := int(a); n > 0 && pixel < count; n-- {
				b, err := d.readByte()
				if err != nil {
					return err
				}
				d.pix[pixel] = b
				pixel++
			}
		}
	}
	return nil
}

func (d *decoder) readPalette() error {
	var buf [paletteSize]byte
	if err := readFull(d.r, buf[:]); err != nil {
		return err
	}
	p := new(Palette)
	for i := range p {
		p[i] = RGB{buf[3*i], buf[3*i+1], buf[3*i+2]}
	}
	d.palette = p
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if d.maxPixels <= 0 {
		d.maxPixels = DefaultMaxPixels
	}

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	if configOnly {
		return nil
	}

	if uint64(d.header.Width)*uint64(d.header.Height) > uint64(d.maxPixels) {
		return ErrTooLarge
	}
	count := int(d.header.Width) * int(d.header.Height)

	d.pix = make([]uint8, count)

	var err error
	switch d.header.Flags.Compression() {
	case CompressionRLE:
		err = d.decodeRLE(count)
	default:
		err = d.decodeDefault(count)
	}
	if err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	if d.header.Flags.HasPalette() {
		if err := d.readPalette(); err != nil {
			if err != io.ErrUnexpectedEOF {
				return err
			}
			return ErrNotEnough
		}
	}

	return nil
}

// DecodeHeader reads just the container header from r, leaving the
// pixel stream unconsumed.
func DecodeHeader(r io.Reader) (Header, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Header{}, err
	}
	return d.header, nil
}

// DecodeImage reads a PID container from r without resolving colors.
// The returned image holds the raw palette indices and, if present,
// the palette.
func DecodeImage(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return &Image{
		Header:  d.header,
		Pix:     d.pix,
		Palette: d.palette,
	}, nil
}

// Decode reads a PID image from r and returns it as an image.Image.
// Images without a palette cannot be resolved and fail with
// ErrMissingPalette.
func Decode(r io.Reader) (image.Image, error) {
	m, err := DecodeImage(r)
	if err != nil {
		return nil, err
	}
	return m.RGBA()
}

// DecodeConfig returns the color model and dimensions of a PID image
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      int(d.header.Width),
		Height:     int(d.header.Height),
	}, nil
}

// Decoder decodes PID images under a configurable pixel limit. The
// zero value behaves like the package-level functions.
type Decoder struct {
	// MaxPixels caps Width*Height before the pixel buffer is
	// allocated. Zero or negative means DefaultMaxPixels.
	MaxPixels int
}

// DecodeImage is like the package-level DecodeImage but honors the
// decoder's pixel limit.
func (dec *Decoder) DecodeImage(r io.Reader) (*Image, error) {
	d := decoder{maxPixels: dec.MaxPixels}
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return &Image{
		Header:  d.header,
		Pix:     d.pix,
		Palette: d.palette,
	}, nil
}

// Decode is like the package-level Decode but honors the decoder's
// pixel limit.
func (dec *Decoder) Decode(r io.Reader) (image.Image, error) {
	m, err := dec.DecodeImage(r)
	if err != nil {
		return nil, err
	}
	return m.RGBA()
}
