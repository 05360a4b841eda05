//go:build opencv

package detection

import (
	"image"

	"gocv.io/x/gocv"
)

// defaultFinder returns the circle finder used by NewDetector.
func defaultFinder() CircleFinder {
	return OpenCVHough{}
}

// OpenCVHough delegates the circle transform to OpenCV's HOUGH_GRADIENT.
//
// RadiusBand is ignored; OpenCV estimates radii its own way.
type OpenCVHough struct{}

// FindCircles implements CircleFinder.
func (OpenCVHough) FindCircles(src *image.Gray, p HoughParams) []Circle {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	defer mat.Close()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mat.SetUCharAt(y, x, src.Pix[y*src.Stride+x])
		}
	}

	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(mat, &circles, gocv.HoughGradient,
		p.DP, p.MinDist,
		p.CannyHigh, float64(p.AccumThreshold),
		p.MinRadius, p.MaxRadius)

	if circles.Empty() || circles.Cols() == 0 {
		return nil
	}

	out := make([]Circle, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		out[i] = Circle{
			X: float64(circles.GetFloatAt(0, i*3)),
			Y: float64(circles.GetFloatAt(0, i*3+1)),
			R: float64(circles.GetFloatAt(0, i*3+2)),
		}
	}
	return out
}
