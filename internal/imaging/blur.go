package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// GaussianKernel returns a normalized 1-D Gaussian kernel of the given odd size.
// A non-positive sigma is derived from the size the usual way:
// 0.3*((size-1)*0.5 - 1) + 0.8.
func GaussianKernel(size int, sigma float64) convolution.Matrix {
	if size < 1 {
		size = 1
	}
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	k := convolution.NewKernel(size, 1)
	half := size / 2
	for i := 0; i < size; i++ {
		x := float64(i - half)
		k.Matrix[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}
	return k.Normalized()
}

// GaussianBlur smooths a grayscale image with a separable size x size Gaussian
// kernel. Pixels beyond the border are taken from the nearest edge pixel.
//
// The result has the same size as src and bounds starting at (0,0).
func GaussianBlur(src *image.Gray, size int, sigma float64) *image.Gray {
	k := GaussianKernel(size, sigma)
	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}

	horizontal := convolution.Convolve(src, k, opts)
	smoothed := convolution.Convolve(horizontal, k.Transposed(), opts)

	bounds := smoothed.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Gray in, gray out: R, G and B are identical.
			out.Pix[y*out.Stride+x] = smoothed.Pix[y*smoothed.Stride+x*4]
		}
	}
	return out
}
