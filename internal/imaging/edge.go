package imaging

import (
	"image"
	"math"
)

// EdgeMap holds the result of Canny edge detection on a grayscale image.
//
// Edges, DX and DY are row-major with Width*Height entries. DX and DY are the
// raw 3x3 Sobel responses at every pixel, kept so that callers can vote along
// the gradient direction without recomputing it.
type EdgeMap struct {
	// Width of the source image in pixels.
	Width int

	// Height of the source image in pixels.
	Height int

	// Edges marks pixels that survived non-maximum suppression and hysteresis.
	Edges []bool

	// DX is the horizontal Sobel derivative.
	DX []float64

	// DY is the vertical Sobel derivative (positive pointing down).
	DY []float64
}

// At reports whether (x, y) is an edge pixel. Out-of-range points are not edges.
func (e *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Edges[y*e.Width+x]
}

// Count returns the number of edge pixels.
func (e *EdgeMap) Count() int {
	n := 0
	for _, v := range e.Edges {
		if v {
			n++
		}
	}
	return n
}

// Image renders the edge map as a 0/255 grayscale mask.
func (e *EdgeMap) Image() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, e.Width, e.Height))
	for i, v := range e.Edges {
		if v {
			out.Pix[(i/e.Width)*out.Stride+i%e.Width] = 255
		}
	}
	return out
}

// Canny detects edges in an already-smoothed grayscale image.
//
// Parameters:
//   - src: Grayscale input. No blurring is applied here; smooth first if the
//     input is noisy.
//   - low: Lower hysteresis threshold on gradient magnitude.
//   - high: Upper hysteresis threshold on gradient magnitude.
//
// Returns:
//   - *EdgeMap: Edge pixels together with the Sobel derivatives.
//
// # Algorithm
//
//  1. Gradient computation: unnormalized 3x3 Sobel operators, with the
//     magnitude taken as |Gx| + |Gy|. A hard 0 to 255 step therefore has a
//     magnitude of about 1020, and thresholds are on that scale.
//
//  2. Non-maximum suppression: the gradient direction is quantized to one of
//     four axes and a pixel survives only when it is strictly greater than the
//     neighbor behind it and at least equal to the neighbor ahead of it. The
//     asymmetry keeps exactly one pixel on a plateau.
//
//  3. Hysteresis: pixels above high seed edges, which then grow through
//     8-connected pixels above low.
//
// Border pixels use replicated edge values for the gradient but are never
// reported as edges.
func Canny(src *image.Gray, low, high float64) *EdgeMap {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	n := width * height

	em := &EdgeMap{
		Width:  width,
		Height: height,
		Edges:  make([]bool, n),
		DX:     make([]float64, n),
		DY:     make([]float64, n),
	}
	if width < 3 || height < 3 {
		return em
	}
	if low > high {
		low, high = high, low
	}

	px := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(src.Pix[y*src.Stride+x])
	}

	magnitude := make([]float64, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1) -
				px(x-1, y-1) - 2*px(x-1, y) - px(x-1, y+1)
			gy := px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1) -
				px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1)
			i := y*width + x
			em.DX[i] = gx
			em.DY[i] = gy
			magnitude[i] = math.Abs(gx) + math.Abs(gy)
		}
	}

	// Non-maximum suppression. Candidates: 0 none, 1 weak, 2 strong.
	state := make([]uint8, n)
	var stack []int
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= low {
				continue
			}

			angle := math.Atan2(em.DY[i], em.DX[i])
			if angle < 0 {
				angle += math.Pi
			}

			var behind, ahead float64
			switch {
			case angle < math.Pi/8 || angle >= 7*math.Pi/8:
				behind = magnitude[i-1]
				ahead = magnitude[i+1]
			case angle < 3*math.Pi/8:
				// Gradient points down-right in image coordinates.
				behind = magnitude[i-width-1]
				ahead = magnitude[i+width+1]
			case angle < 5*math.Pi/8:
				behind = magnitude[i-width]
				ahead = magnitude[i+width]
			default:
				behind = magnitude[i-width+1]
				ahead = magnitude[i+width-1]
			}

			if mag > behind && mag >= ahead {
				if mag > high {
					state[i] = 2
					stack = append(stack, i)
				} else {
					state[i] = 1
				}
			}
		}
	}

	// Hysteresis
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if em.Edges[i] {
			continue
		}
		em.Edges[i] = true
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if state[j] != 0 && !em.Edges[j] {
					stack = append(stack, j)
				}
			}
		}
	}

	return em
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
