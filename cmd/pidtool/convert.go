package main

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/pidtool/pid"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func encodeImage(w io.Writer, ext string, m image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, m)
	case ".gif":
		return gif.Encode(w, m, &gif.Options{
			NumColors: 256,
			Quantizer: quantize.MedianCutQuantizer{},
		})
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, m, nil)
	case ".bmp":
		return bmp.Encode(w, m)
	case ".tif", ".tiff":
		return tiff.Encode(w, m, nil)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}

// writeImage encodes m into memory first so that a failed conversion
// never leaves a partial file behind.
func writeImage(file string, m image.Image) error {
	b := new(bytes.Buffer)
	if err := encodeImage(b, filepath.Ext(file), m); err != nil {
		return err
	}
	return os.WriteFile(file, b.Bytes(), 0o644)
}

func convert(input, output string) error {
	b, err := os.ReadFile(input)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m, err := pid.DecodeImage(bytes.NewReader(b))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("%s: %w", input, err), 1)
	}

	rgba, err := m.RGBA()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("%s: %w", input, err), 1)
	}

	if err := writeImage(output, rgba); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}
