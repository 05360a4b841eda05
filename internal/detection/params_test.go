package detection

import (
	"errors"
	"testing"
)

func TestDefaultParams_Valid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params should validate: %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		field  string
	}{
		{"no bands", func(p *Params) { p.RedBands = nil }, "red_bands"},
		{"inverted band", func(p *Params) { p.RedBands[0].HueMin = 20 }, "red_bands"},
		{"zero kernel", func(p *Params) { p.CloseKernelSize = 0 }, "close_kernel_size"},
		{"even blur", func(p *Params) { p.BlurKernelSize = 8 }, "blur_kernel_size"},
		{"negative sigma", func(p *Params) { p.BlurSigma = -1 }, "blur_sigma"},
		{"dp below one", func(p *Params) { p.HoughDP = 0.5 }, "hough_dp"},
		{"zero min dist", func(p *Params) { p.HoughMinDist = 0 }, "hough_min_dist"},
		{"zero threshold", func(p *Params) { p.HoughAccumThreshold = 0 }, "hough_accum_threshold"},
		{"radius inverted", func(p *Params) { p.MaxRadius = 2 }, "max_radius"},
		{"retry below min", func(p *Params) { p.RetryMaxRadius = 2 }, "retry_max_radius"},
		{"ring ratio of one", func(p *Params) { p.MinRingRatio = 1 }, "min_ring_ratio"},
		{"zero inner ratio", func(p *Params) { p.MaxInnerRatio = 0 }, "max_inner_ratio"},
		{"too many sectors required", func(p *Params) { p.MinCoveredSectors = 13 }, "min_covered_sectors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			err := p.Validate()
			var pe *ParamError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParamError, got %v", err)
			}
			if pe.Field != tt.field {
				t.Errorf("Field: got %s, want %s", pe.Field, tt.field)
			}
		})
	}
}

func TestParams_RetryDisabled(t *testing.T) {
	p := DefaultParams()
	p.RetryMaxRadius = 0
	if err := p.Validate(); err != nil {
		t.Errorf("retry_max_radius 0 should be allowed: %v", err)
	}
}

func TestRingThickness(t *testing.T) {
	p := DefaultParams()
	if got := p.RingThickness(5); got != 2 {
		t.Errorf("small radius: got %v, want 2", got)
	}
	if got := p.RingThickness(30); !near(got, 5.4, 1e-9) {
		t.Errorf("radius 30: got %v, want 5.4", got)
	}
}
