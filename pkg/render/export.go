package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an image extension with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(ext string) (encodeFunc, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Encode writes img to w in the format named by ext (".png", ".bmp",
// ".tif" or ".tiff", case-insensitive).
func Encode(w io.Writer, img image.Image, ext string) error {
	enc, err := encoderFor(ext)
	if err != nil {
		return err
	}
	return enc(w, img)
}

// Save writes img to path, choosing the encoder from the file extension.
// Nothing is created when the extension is unsupported.
func Save(path string, img image.Image) (err error) {
	enc, err := encoderFor(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return enc(f, img)
}

// SavePNG saves the color plane as a PNG file.
func (z *ZBuffer) SavePNG(path string) error {
	return Save(path, z.ToImage())
}
