// Package images - file decode and encode helpers.
package images

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupportedFormat is returned when a file extension maps to no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// jpegQuality matches what most camera pipelines emit; re-encoding the
// annotated copy at a lower setting would visibly degrade the upload.
const jpegQuality = 90

// DecodeFile reads and decodes an image file. The format is sniffed from the
// content, not the extension, so a PNG renamed to .jpg still decodes.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode image %s", filepath.Base(path))
	}
	return img, nil
}

// EncodeFile writes img to path, choosing the encoder from the file
// extension (.png, .jpg, or .jpeg).
func EncodeFile(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create image file")
	}

	if err := Encode(img, f, filepath.Ext(path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close image file")
	}
	return nil
}

// Encode writes img to w in the format named by ext.
// Returns ErrUnsupportedFormat for anything but .png, .jpg, and .jpeg.
func Encode(img image.Image, w io.Writer, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return errors.Wrap(png.Encode(w, img), "encode png")
	case ".jpg", ".jpeg":
		return errors.Wrap(jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality}), "encode jpeg")
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
}

// SaveAnnotated decodes src, draws the boxes on it, and writes the result
// to dst in the format named by dst's extension.
func SaveAnnotated(src, dst string, boxes []Box) error {
	img, err := DecodeFile(src)
	if err != nil {
		return err
	}
	return EncodeFile(Annotate(img, boxes), dst)
}

// CopyFile duplicates src to dst byte for byte.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open source")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "create destination")
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "copy file")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close destination")
	}
	return nil
}
