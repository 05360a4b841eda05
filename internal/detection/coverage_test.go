package detection

import (
	"testing"
)

func TestAngularCoverage(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name        string
		skip        func(deg float64) bool
		wantCovered int
		wantEmpty   []int
	}{
		{"full ring", nil, 12, nil},
		{"quarter erased", func(d float64) bool { return d >= -5 && d <= 95 }, 9, []int{0, 1, 2}},
		{"lower half only", func(d float64) bool { return d <= 0 || d >= 180 }, 6, []int{6, 7, 8, 9, 10, 11}},
		{"single arc", func(d float64) bool { return d < 30 || d > 60 }, 1, []int{0, 2, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := ColorMask(createRingImage(200, 100, 100, 28.5, 31.5, tt.skip), p.RedBands)
			c := Circle{X: 100, Y: 100, R: 30}

			cov := AngularCoverage(mask, c, p.RingThickness(c.R), p.CoverageSectors)

			if cov.Covered != tt.wantCovered {
				t.Errorf("Covered: got %d, want %d (histogram %v)", cov.Covered, tt.wantCovered, cov.Histogram)
			}
			for _, s := range tt.wantEmpty {
				if cov.Histogram[s] != 0 {
					t.Errorf("sector %d: got %d pixels, want 0", s, cov.Histogram[s])
				}
			}

			sum := 0
			for _, n := range cov.Histogram {
				sum += n
			}
			if sum != cov.Pixels {
				t.Errorf("histogram sums to %d, Pixels is %d", sum, cov.Pixels)
			}
		})
	}
}

func TestAngularCoverage_OnlyAnnulusCounts(t *testing.T) {
	p := DefaultParams()
	// Solid disc of radius 10: annulus [28, 32] around r=30 holds nothing.
	mask := ColorMask(createDiscImage(200, 100, 100, 10), p.RedBands)

	cov := AngularCoverage(mask, Circle{X: 100, Y: 100, R: 30}, 2, 12)

	if cov.Pixels != 0 || cov.Covered != 0 {
		t.Errorf("got %d pixels in %d sectors, want none", cov.Pixels, cov.Covered)
	}
}

func TestAngularCoverage_NoSectors(t *testing.T) {
	mask := ColorMask(syntheticRing(), DefaultParams().RedBands)
	cov := AngularCoverage(mask, Circle{X: 100, Y: 100, R: 30}, 5, 0)
	if cov.Pixels != 0 || cov.Histogram != nil {
		t.Errorf("zero sectors: got %+v, want empty", cov)
	}
}
