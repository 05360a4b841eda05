package detection

import (
	"image"

	"github.com/ironsheep/red-ring-finder/internal/imaging"
)

// ColorMask returns a 0/255 mask of the pixels of img inside any of bands.
func ColorMask(img image.Image, bands []imaging.HSVBand) *image.Gray {
	return imaging.InRange(img, bands)
}

// CleanMask prepares a raw mask for circle finding.
//
// Small gaps in the outline are closed with an elliptical element, then the
// result is Gaussian-smoothed so the edge detector sees a soft gradient rather
// than a stair-stepped boundary. The raw mask is not modified.
func CleanMask(raw *image.Gray, p Params) *image.Gray {
	elem := imaging.EllipseElement(p.CloseKernelSize, p.CloseKernelSize)
	closed := imaging.Close(raw, elem, p.CloseIterations)
	return imaging.GaussianBlur(closed, p.BlurKernelSize, p.BlurSigma)
}
