package detection

import (
	"fmt"

	"github.com/ironsheep/red-ring-finder/internal/imaging"
)

// Params holds every tunable of the detection pipeline.
//
// A Params value is treated as immutable once handed to NewDetector. Start
// from DefaultParams and override individual fields; the TOML tags match the
// keys accepted in the [detection] table of a configuration file.
type Params struct {
	// RedBands are the HSV boxes whose union is considered "red".
	RedBands []imaging.HSVBand `toml:"red_bands"`

	// CloseKernelSize is the width and height of the elliptical closing element.
	CloseKernelSize int `toml:"close_kernel_size"`

	// CloseIterations is the number of closing passes.
	CloseIterations int `toml:"close_iterations"`

	// BlurKernelSize is the Gaussian kernel width (odd).
	BlurKernelSize int `toml:"blur_kernel_size"`

	// BlurSigma is the Gaussian standard deviation in pixels.
	BlurSigma float64 `toml:"blur_sigma"`

	// HoughDP is the inverse accumulator resolution. 1.2 means each
	// accumulator cell covers 1.2 x 1.2 image pixels.
	HoughDP float64 `toml:"hough_dp"`

	// HoughMinDist is the minimum distance between reported centers.
	HoughMinDist float64 `toml:"hough_min_dist"`

	// HoughCannyHigh is the upper Canny threshold; the lower one is half of it.
	HoughCannyHigh float64 `toml:"hough_canny_high"`

	// HoughAccumThreshold is the number of votes a center needs, and the
	// number of edge pixels its radius band needs.
	HoughAccumThreshold int `toml:"hough_accum_threshold"`

	// MinRadius and MaxRadius bound the first search pass.
	MinRadius int `toml:"min_radius"`
	MaxRadius int `toml:"max_radius"`

	// RetryMaxRadius is the upper radius of the second pass, run only when
	// the first pass returns nothing. Zero disables the retry.
	RetryMaxRadius int `toml:"retry_max_radius"`

	// RadiusBand is the half-width in pixels of the window used to pick a
	// candidate's radius from edge distances.
	RadiusBand float64 `toml:"radius_band"`

	// RingThicknessMin and RingThicknessScale define the annulus half-width
	// t = max(RingThicknessMin, RingThicknessScale*r).
	RingThicknessMin   float64 `toml:"ring_thickness_min"`
	RingThicknessScale float64 `toml:"ring_thickness_scale"`

	// InnerRadiusFactor places the interior disk at r - InnerRadiusFactor*t.
	InnerRadiusFactor float64 `toml:"inner_radius_factor"`

	// MinRingRatio, MaxInnerRatio and MinScore are the strict acceptance gates.
	MinRingRatio  float64 `toml:"min_ring_ratio"`
	MaxInnerRatio float64 `toml:"max_inner_ratio"`
	MinScore      float64 `toml:"min_score"`

	// CoverageSectors is the number of equal angular sectors around the circle.
	CoverageSectors int `toml:"coverage_sectors"`

	// MinCoveredSectors is how many sectors must contain a mask pixel.
	MinCoveredSectors int `toml:"min_covered_sectors"`

	// MinAnnulusPixels is how many mask pixels the annulus must contain.
	MinAnnulusPixels int `toml:"min_annulus_pixels"`
}

// DefaultParams returns the tuned defaults for small, thin red ring outlines.
func DefaultParams() Params {
	return Params{
		RedBands: []imaging.HSVBand{
			{HueMin: 0, HueMax: 10, SatMin: 80, SatMax: 255, ValMin: 80, ValMax: 255},
			{HueMin: 170, HueMax: 180, SatMin: 80, SatMax: 255, ValMin: 80, ValMax: 255},
		},
		CloseKernelSize:     7,
		CloseIterations:     1,
		BlurKernelSize:      9,
		BlurSigma:           2,
		HoughDP:             1.2,
		HoughMinDist:        15,
		HoughCannyHigh:      100,
		HoughAccumThreshold: 20,
		MinRadius:           3,
		MaxRadius:           140,
		RetryMaxRadius:      20,
		RadiusBand:          3,
		RingThicknessMin:    2,
		RingThicknessScale:  0.18,
		InnerRadiusFactor:   2.2,
		MinRingRatio:        0.12,
		MaxInnerRatio:       0.25,
		MinScore:            0.02,
		CoverageSectors:     12,
		MinCoveredSectors:   10,
		MinAnnulusPixels:    12,
	}
}

// ParamError reports a parameter that is out of range.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks that p describes a usable pipeline.
//
// # Errors
//
// Returns a *ParamError naming the first offending field.
func (p Params) Validate() error {
	bad := func(field, format string, args ...any) error {
		return &ParamError{Field: field, Reason: fmt.Sprintf(format, args...)}
	}

	if len(p.RedBands) == 0 {
		return bad("red_bands", "at least one band is required")
	}
	for i, b := range p.RedBands {
		if b.HueMin > b.HueMax || b.SatMin > b.SatMax || b.ValMin > b.ValMax {
			return bad("red_bands", "band %d has a minimum above its maximum", i)
		}
	}
	if p.CloseKernelSize < 1 {
		return bad("close_kernel_size", "must be at least 1, got %d", p.CloseKernelSize)
	}
	if p.CloseIterations < 0 {
		return bad("close_iterations", "must not be negative, got %d", p.CloseIterations)
	}
	if p.BlurKernelSize < 1 || p.BlurKernelSize%2 == 0 {
		return bad("blur_kernel_size", "must be a positive odd number, got %d", p.BlurKernelSize)
	}
	if p.BlurSigma < 0 {
		return bad("blur_sigma", "must not be negative, got %g", p.BlurSigma)
	}
	if p.HoughDP < 1 {
		return bad("hough_dp", "must be at least 1, got %g", p.HoughDP)
	}
	if p.HoughMinDist <= 0 {
		return bad("hough_min_dist", "must be positive, got %g", p.HoughMinDist)
	}
	if p.HoughCannyHigh <= 0 {
		return bad("hough_canny_high", "must be positive, got %g", p.HoughCannyHigh)
	}
	if p.HoughAccumThreshold < 1 {
		return bad("hough_accum_threshold", "must be at least 1, got %d", p.HoughAccumThreshold)
	}
	if p.MinRadius < 1 {
		return bad("min_radius", "must be at least 1, got %d", p.MinRadius)
	}
	if p.MaxRadius < p.MinRadius {
		return bad("max_radius", "must not be below min_radius (%d), got %d", p.MinRadius, p.MaxRadius)
	}
	if p.RetryMaxRadius != 0 && p.RetryMaxRadius < p.MinRadius {
		return bad("retry_max_radius", "must be 0 or at least min_radius (%d), got %d", p.MinRadius, p.RetryMaxRadius)
	}
	if p.RadiusBand <= 0 {
		return bad("radius_band", "must be positive, got %g", p.RadiusBand)
	}
	if p.RingThicknessMin <= 0 || p.RingThicknessScale < 0 {
		return bad("ring_thickness_min", "annulus half-width must be positive")
	}
	if p.InnerRadiusFactor < 0 {
		return bad("inner_radius_factor", "must not be negative, got %g", p.InnerRadiusFactor)
	}
	if p.MinRingRatio < 0 || p.MinRingRatio >= 1 {
		return bad("min_ring_ratio", "must be in [0,1), got %g", p.MinRingRatio)
	}
	if p.MaxInnerRatio <= 0 || p.MaxInnerRatio > 1 {
		return bad("max_inner_ratio", "must be in (0,1], got %g", p.MaxInnerRatio)
	}
	if p.CoverageSectors < 1 {
		return bad("coverage_sectors", "must be at least 1, got %d", p.CoverageSectors)
	}
	if p.MinCoveredSectors < 0 || p.MinCoveredSectors > p.CoverageSectors {
		return bad("min_covered_sectors", "must be in [0,%d], got %d", p.CoverageSectors, p.MinCoveredSectors)
	}
	if p.MinAnnulusPixels < 0 {
		return bad("min_annulus_pixels", "must not be negative, got %d", p.MinAnnulusPixels)
	}
	return nil
}

// houghParams returns the transform settings for one search pass.
func (p Params) houghParams(maxRadius int) HoughParams {
	return HoughParams{
		DP:             p.HoughDP,
		MinDist:        p.HoughMinDist,
		CannyHigh:      p.HoughCannyHigh,
		AccumThreshold: p.HoughAccumThreshold,
		MinRadius:      p.MinRadius,
		MaxRadius:      maxRadius,
		RadiusBand:     p.RadiusBand,
	}
}
