package detection

import (
	"image"
	"image/color"
	"math"
)

var (
	ringRed    = color.RGBA{220, 20, 20, 255}
	background = color.RGBA{255, 255, 255, 255}
)

// createTestImage creates a solid color test image.
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createRingImage paints every pixel whose distance from (cx, cy) lies in
// [rIn, rOut] red on a white background. Pixels whose angle in degrees
// (atan2(dy, dx), image coordinates) satisfies skip are left white.
func createRingImage(size int, cx, cy, rIn, rOut float64, skip func(deg float64) bool) *image.RGBA {
	img := createTestImage(size, size, background)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			d := math.Hypot(dx, dy)
			if d < rIn || d > rOut {
				continue
			}
			if skip != nil && skip(math.Atan2(dy, dx)*180/math.Pi) {
				continue
			}
			img.SetRGBA(x, y, ringRed)
		}
	}
	return img
}

// createDiscImage paints a solid red disk on a white background.
func createDiscImage(size int, cx, cy, r float64) *image.RGBA {
	return createRingImage(size, cx, cy, 0, r, nil)
}

// syntheticRing is the reference test image: a 3 pixel thick ring of radius
// 30 centered in a 200x200 image.
func syntheticRing() *image.RGBA {
	return createRingImage(200, 100, 100, 28.5, 31.5, nil)
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
