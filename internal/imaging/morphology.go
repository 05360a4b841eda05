package imaging

import (
	"image"
	"math"
)

// StructuringElement is a set of pixel offsets relative to the kernel anchor.
type StructuringElement []image.Point

// EllipseElement returns an elliptical structuring element inscribed in a
// width x height box, anchored at its center.
//
// Each row spans the chord of the ellipse at that row, rounded to the nearest
// pixel, which produces the familiar "rounded square" shape for small sizes:
//
//	...X...
//	.XXXXX.
//	XXXXXXX
//	XXXXXXX
//	XXXXXXX
//	.XXXXX.
//	...X...
func EllipseElement(width, height int) StructuringElement {
	if width <= 0 || height <= 0 {
		return StructuringElement{{}}
	}
	r := height / 2
	c := width / 2
	invR2 := 0.0
	if r > 0 {
		invR2 = 1.0 / float64(r*r)
	}

	var elem StructuringElement
	for i := 0; i < height; i++ {
		dy := i - r
		j1, j2 := 0, 0
		if abs(dy) <= r {
			dx := int(math.Round(float64(c) * math.Sqrt(float64(r*r-dy*dy)*invR2)))
			j1 = max(c-dx, 0)
			j2 = min(c+dx+1, width)
		}
		for j := j1; j < j2; j++ {
			elem = append(elem, image.Point{X: j - c, Y: dy})
		}
	}
	return elem
}

// Dilate returns a mask in which each pixel is the maximum of its neighbors
// under elem. Neighbors outside the image are ignored.
func Dilate(mask *image.Gray, elem StructuringElement) *image.Gray {
	return morph(mask, elem, true)
}

// Erode returns a mask in which each pixel is the minimum of its neighbors
// under elem. Neighbors outside the image are ignored, so a shape touching the
// border is not eaten away from that side.
func Erode(mask *image.Gray, elem StructuringElement) *image.Gray {
	return morph(mask, elem, false)
}

// Close performs a morphological closing (dilate, then erode) the given number
// of times. Closing bridges gaps narrower than the element while leaving the
// overall shape and holes larger than the element intact.
func Close(mask *image.Gray, elem StructuringElement, iterations int) *image.Gray {
	out := mask
	for i := 0; i < iterations; i++ {
		out = Dilate(out, elem)
	}
	for i := 0; i < iterations; i++ {
		out = Erode(out, elem)
	}
	if out == mask {
		out = cloneGray(mask)
	}
	return out
}

func morph(mask *image.Gray, elem StructuringElement, dilate bool) *image.Gray {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var v uint8
			if !dilate {
				v = 255
			}
			for _, off := range elem {
				px, py := x+off.X, y+off.Y
				if px < 0 || px >= width || py < 0 || py >= height {
					continue
				}
				p := mask.Pix[py*mask.Stride+px]
				if dilate && p > v {
					v = p
				} else if !dilate && p < v {
					v = p
				}
			}
			out.Pix[y*out.Stride+x] = v
		}
	}
	return out
}

func cloneGray(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+bounds.Dx()], src.Pix[y*src.Stride:y*src.Stride+bounds.Dx()])
	}
	return dst
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
