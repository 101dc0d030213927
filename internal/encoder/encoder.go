// Package encoder maps a target extension to an encode path.
//
// Unknown or absent extensions deliberately fall back to JPEG instead of
// failing: the caller always gets bytes in some lossy-compressible format.
package encoder

import (
	"image"
	"io"

	"github.com/disintegration/imaging"

	// Register decoders for formats imaging cannot decode on its own.
	_ "golang.org/x/image/webp"
)

// DefaultQuality is used when the caller does not supply a quality value.
const DefaultQuality = 60

// Encode writes img to w in the format named by ext ("png", "jpeg", ...).
// Quality is a 1-100 scale applied to lossy formats; values <= 0 mean
// DefaultQuality.
func Encode(w io.Writer, img image.Image, ext string, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format = imaging.JPEG
	}

	return imaging.Encode(w, img, format, imaging.JPEGQuality(quality))
}

// Open decodes the image at path using every registered decoder.
func Open(path string) (image.Image, error) {
	return imaging.Open(path)
}
