package imaging

import (
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the quality used for every JPEG written by this package.
const JPEGQuality = 95

// SaveJPEG encodes img as a JPEG at JPEGQuality and writes it to path.
// Any existing file at path is replaced.
func SaveJPEG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to save JPEG %s: %w", path, err)
	}
	return nil
}

// SavePNG encodes img as a PNG and writes it to path.
func SavePNG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return fmt.Errorf("failed to save PNG %s: %w", path, err)
	}
	return nil
}
