package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// OverlayColor is the color used for circle annotations.
var OverlayColor = color.NRGBA{R: 0, G: 255, B: 0, A: 255}

// DrawCircle strokes a circle outline of the given thickness onto dst.
// Pixels whose distance from (cx, cy) is within thickness/2 of radius are set.
func DrawCircle(dst *image.NRGBA, cx, cy, radius, thickness int, c color.Color) {
	half := float64(thickness) / 2
	outer := float64(radius) + half
	inner := math.Max(0, float64(radius)-half)
	paintWhere(dst, cx, cy, int(math.Ceil(outer)), c, func(d2 float64) bool {
		return d2 <= outer*outer && d2 >= inner*inner
	})
}

// FillDisk paints a solid disk of the given radius onto dst.
func FillDisk(dst *image.NRGBA, cx, cy, radius int, c color.Color) {
	r := float64(radius)
	paintWhere(dst, cx, cy, radius, c, func(d2 float64) bool {
		return d2 <= r*r
	})
}

// DrawLabel writes text onto dst with its baseline starting at (x, y).
func DrawLabel(dst *image.NRGBA, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Annotate returns a copy of img with a detected circle marked on it.
//
// The circle is drawn 2 pixels thick with a small filled dot at its center, and
// label is written above the circle, shifted left so that it roughly centers
// over it. The source image is not modified.
func Annotate(img image.Image, cx, cy, radius int, label string) *image.NRGBA {
	out := imaging.Clone(img)

	DrawCircle(out, cx, cy, radius, 2, OverlayColor)
	FillDisk(out, cx, cy, 3, OverlayColor)
	if label != "" {
		DrawLabel(out, max(0, cx-90), max(15, cy-radius-8), label, OverlayColor)
	}
	return out
}

func paintWhere(dst *image.NRGBA, cx, cy, extent int, c color.Color, inside func(d2 float64) bool) {
	bounds := dst.Bounds()
	for y := cy - extent; y <= cy+extent; y++ {
		for x := cx - extent; x <= cx+extent; x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			dx := float64(x - cx)
			dy := float64(y - cy)
			if inside(dx*dx + dy*dy) {
				dst.Set(x, y, c)
			}
		}
	}
}
