package detection

import (
	"testing"
)

func TestScoreCandidate_Ring(t *testing.T) {
	p := DefaultParams()
	mask := ColorMask(syntheticRing(), p.RedBands)

	sc := ScoreCandidate(mask, Circle{X: 100, Y: 100, R: 30}, p)

	// Ring area over annulus area: (31.5²-28.5²) / (35.4²-24.6²) ≈ 0.278
	if !near(sc.RingRatio, 0.278, 0.02) {
		t.Errorf("RingRatio: got %.3f, want ~0.278", sc.RingRatio)
	}
	if sc.InnerRatio != 0 {
		t.Errorf("InnerRatio: got %.3f, want 0", sc.InnerRatio)
	}
	if !near(sc.Score, sc.RingRatio*sc.RingRatio, 1e-12) {
		t.Errorf("Score: got %.4f, want ring²=%.4f", sc.Score, sc.RingRatio*sc.RingRatio)
	}
	if !p.passesRatioGates(&sc) {
		t.Error("true ring should pass the ratio gates")
	}
}

func TestScoreCandidate_SolidDisc(t *testing.T) {
	p := DefaultParams()
	mask := ColorMask(createDiscImage(200, 100, 100, 30), p.RedBands)

	sc := ScoreCandidate(mask, Circle{X: 100, Y: 100, R: 30}, p)

	if sc.InnerRatio != 1 {
		t.Errorf("InnerRatio: got %.3f, want 1", sc.InnerRatio)
	}
	if sc.Score > 0 {
		t.Errorf("Score: got %.3f, want <= 0", sc.Score)
	}
	if p.passesRatioGates(&sc) {
		t.Error("solid disc should fail the ratio gates")
	}
}

func TestScoreCandidate_EmptyRegions(t *testing.T) {
	p := DefaultParams()
	mask := ColorMask(syntheticRing(), p.RedBands)

	// Entirely outside the image: no annulus and no interior pixels.
	sc := ScoreCandidate(mask, Circle{X: -500, Y: -500, R: 10}, p)

	if sc.RingRatio != 0 {
		t.Errorf("empty annulus RingRatio: got %v, want 0", sc.RingRatio)
	}
	if sc.InnerRatio != 1 {
		t.Errorf("empty interior InnerRatio: got %v, want 1", sc.InnerRatio)
	}
	if sc.Score != 0 {
		t.Errorf("Score: got %v, want 0", sc.Score)
	}
}

func TestScoreCandidate_NoMask(t *testing.T) {
	p := DefaultParams()
	mask := ColorMask(createTestImage(50, 50, background), p.RedBands)

	sc := ScoreCandidate(mask, Circle{X: 25, Y: 25, R: 10}, p)

	if sc.RingRatio != 0 || sc.InnerRatio != 0 || sc.Score != 0 {
		t.Errorf("empty mask: got %+v, want all zero ratios", sc)
	}
}

func TestSelectBest(t *testing.T) {
	p := DefaultParams()
	mask := ColorMask(syntheticRing(), p.RedBands)

	tests := []struct {
		name       string
		candidates []Circle
		want       *Circle
	}{
		{"none", nil, nil},
		{"true ring beats offset", []Circle{{X: 60, Y: 60, R: 30}, {X: 100, Y: 100, R: 30}}, &Circle{X: 100, Y: 100, R: 30}},
		{"tie keeps first", []Circle{{X: -500, Y: -500, R: 10}, {X: -900, Y: -900, R: 10}}, &Circle{X: -500, Y: -500, R: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBest(mask, tt.candidates, p)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Circle != *tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
