package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV8 is a color in 8-bit hue/saturation/value form.
//
// H is the hue angle in degrees divided by two, so the full circle spans 0-180.
// S and V are scaled to 0-255. Red sits on both ends of the hue range, which is
// why red segmentation always needs two bands.
type HSV8 struct {
	H uint8 `json:"h"` // Hue: 0-180 (degrees / 2)
	S uint8 `json:"s"` // Saturation: 0-255
	V uint8 `json:"v"` // Value: 0-255
}

// ToHSV8 converts any color to HSV8.
//
// Colors are un-premultiplied before conversion. A fully transparent pixel has
// no recoverable color and converts to black (0,0,0).
func ToHSV8(c color.Color) HSV8 {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return HSV8{}
	}
	h, s, v := col.Hsv()
	return HSV8{
		H: uint8(math.Min(math.Round(h/2), 180)),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// HSVBand is an inclusive box in HSV8 space.
type HSVBand struct {
	HueMin uint8 `json:"hue_min" toml:"hue_min"`
	HueMax uint8 `json:"hue_max" toml:"hue_max"`
	SatMin uint8 `json:"sat_min" toml:"sat_min"`
	SatMax uint8 `json:"sat_max" toml:"sat_max"`
	ValMin uint8 `json:"val_min" toml:"val_min"`
	ValMax uint8 `json:"val_max" toml:"val_max"`
}

// Contains reports whether c lies inside the band, bounds included.
func (b HSVBand) Contains(c HSV8) bool {
	return c.H >= b.HueMin && c.H <= b.HueMax &&
		c.S >= b.SatMin && c.S <= b.SatMax &&
		c.V >= b.ValMin && c.V <= b.ValMax
}

// InRange builds a binary mask of the pixels of img that fall inside at least
// one of the bands. Matching pixels are 255, all others 0.
//
// The mask has the same size as img and bounds starting at (0,0).
func InRange(img image.Image, bands []HSVBand) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	mask := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x := 0; x < width; x++ {
			hsv := ToHSV8(img.At(x+bounds.Min.X, y+bounds.Min.Y))
			for _, b := range bands {
				if b.Contains(hsv) {
					row[x] = 255
					break
				}
			}
		}
	}
	return mask
}

// CountNonZero returns the number of non-zero pixels in a mask.
func CountNonZero(mask *image.Gray) int {
	bounds := mask.Bounds()
	n := 0
	for y := 0; y < bounds.Dy(); y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+bounds.Dx()]
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
