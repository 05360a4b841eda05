package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/red-ring-finder/internal/imaging"
)

// Detector runs the red ring pipeline with a fixed set of parameters.
//
// A Detector holds no per-image state and is safe for concurrent use.
type Detector struct {
	params Params
	finder CircleFinder
}

// NewDetector validates p and returns a Detector that uses it.
//
// # Errors
//
// Returns a *ParamError if p fails validation.
func NewDetector(p Params) (*Detector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Detector{params: p, finder: defaultFinder()}, nil
}

// Params returns the parameters the detector was built with.
func (d *Detector) Params() Params {
	return d.params
}

// Detect looks for a single thin red ring in img.
//
// Parameters:
//   - img: Decoded source image.
//   - overlay: When true, Result.Overlay is filled in.
//
// Returns:
//   - *Result: Always non-nil. Result.Mask is always set.
//
// # Pipeline
//
//  1. Color mask: pixels inside any of the red HSV bands.
//  2. Cleaning: elliptical closing, then Gaussian smoothing.
//  3. Candidates: Hough gradient transform on the smoothed mask, with a
//     second, small-radius pass if the first finds nothing.
//  4. Scoring: every candidate is scored against the raw mask and the first
//     one with the highest score is kept.
//  5. Gates: ring ratio, interior ratio and score must pass, then the annulus
//     must hold enough raw mask pixels spread over enough angular sectors.
//
// Detection is deterministic: the same image and parameters always produce
// the same result.
func (d *Detector) Detect(img image.Image, overlay bool) *Result {
	p := d.params
	res := &Result{Sectors: p.CoverageSectors}

	res.Mask = ColorMask(img, p.RedBands)
	smoothed := CleanMask(res.Mask, p)

	candidates := FindCandidates(d.finder, smoothed, p)
	res.Candidates = len(candidates)
	res.Best = SelectBest(res.Mask, candidates, p)

	res.Reason = d.validate(res)
	if res.Reason == ReasonFound {
		res.Found = true
		c := res.Best.Circle
		res.Circle = &c
	}

	if overlay {
		res.Overlay = d.annotate(img, res)
	}
	return res
}

// validate applies the acceptance gates to res.Best and fills in the
// coverage fields as far as evaluation gets.
func (d *Detector) validate(res *Result) Reason {
	p := d.params
	best := res.Best
	if best == nil {
		return ReasonNoCandidates
	}
	if !p.passesRatioGates(best) {
		return ReasonWeakRing
	}

	cov := AngularCoverage(res.Mask, best.Circle, p.RingThickness(best.R), p.CoverageSectors)
	res.AnnulusPixels = cov.Pixels
	if cov.Pixels < p.MinAnnulusPixels || cov.Pixels == 0 {
		return ReasonSparseAnnulus
	}

	res.Coverage = cov.Covered
	if cov.Covered < p.MinCoveredSectors {
		return ReasonPartialArc
	}
	return ReasonFound
}

// annotate draws the accepted ring onto a copy of img, or returns img itself
// when nothing was found.
func (d *Detector) annotate(img image.Image, res *Result) image.Image {
	if !res.Found {
		return img
	}
	x, y, r := int(res.Circle.X), int(res.Circle.Y), int(res.Circle.R)
	return imaging.Annotate(img, x, y, r, Label(res))
}

// Label formats the overlay caption for a found ring, for example
// "r=30 ring=0.28 inner=0.00 cov=12/12".
func Label(res *Result) string {
	if res.Best == nil {
		return ""
	}
	return fmt.Sprintf("r=%d ring=%.2f inner=%.2f cov=%d/%d",
		int(res.Best.R), res.Best.RingRatio, res.Best.InnerRatio, res.Coverage, res.Sectors)
}
