package padicon

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// Format is a lossless image format the icons can be saved in.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat returns the format matching a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported image format: %q", s)
}

// Ext returns the file extension used for the format, including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	}
	return fmt.Errorf("unsupported image format: %q", f)
}
