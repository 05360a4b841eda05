package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// Region is a half-open pixel rectangle [X1,X2) x [Y1,Y2) in image coordinates.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Width returns the horizontal extent of the region.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent of the region.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// CropResult contains a cropped image encoded for transport.
type CropResult struct {
	Region      Region `json:"region"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropAroundCircle computes a square crop region centered on a circle.
//
// Parameters:
//   - bounds: Bounds of the image being cropped.
//   - cx, cy: Circle center in pixels.
//   - radius: Circle radius in pixels.
//   - padScale: Padding added on each side as a fraction of the radius.
//   - minPad: Minimum padding in pixels, so small circles keep some context.
//
// Returns:
//   - Region: The clamped crop region.
//
// The padding is max(minPad, radius*padScale) truncated to an integer, and the
// half-size of the square is radius+padding, also truncated. The center is
// rounded half-to-even. The square is clamped to the image, and when the
// clamped region is 2 pixels or less in either dimension the full image bounds
// are returned instead.
func CropAroundCircle(bounds image.Rectangle, cx, cy, radius, padScale float64, minPad int) Region {
	extra := int(math.Max(float64(minPad), radius*padScale))
	half := int(radius + float64(extra))

	icx := int(math.RoundToEven(cx))
	icy := int(math.RoundToEven(cy))

	r := Region{
		X1: max(bounds.Min.X, icx-half),
		Y1: max(bounds.Min.Y, icy-half),
		X2: min(bounds.Max.X, icx+half),
		Y2: min(bounds.Max.Y, icy+half),
	}

	if r.X2 <= r.X1+2 || r.Y2 <= r.Y1+2 {
		return Region{X1: bounds.Min.X, Y1: bounds.Min.Y, X2: bounds.Max.X, Y2: bounds.Max.Y}
	}
	return r
}

// Crop extracts a region from an image. The result has bounds starting at (0,0).
func Crop(img image.Image, r Region) *image.NRGBA {
	return imaging.Crop(img, r.Rect())
}

// EncodeCrop crops img to r and encodes the result as base64 PNG.
//
// # Errors
//
// Returns an error if the region does not overlap the image or PNG encoding fails.
func EncodeCrop(img image.Image, r Region) (*CropResult, error) {
	if !r.Rect().Overlaps(img.Bounds()) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, img.Bounds().Min.X, img.Bounds().Min.Y, img.Bounds().Max.X, img.Bounds().Max.Y)
	}

	cropped := Crop(img, r)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Region:      r,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
