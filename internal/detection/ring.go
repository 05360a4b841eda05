package detection

import (
	"image"
	"math"
)

// RingThickness returns the annulus half-width used for a circle of radius r.
func (p Params) RingThickness(r float64) float64 {
	return math.Max(p.RingThicknessMin, p.RingThicknessScale*r)
}

// ScoreCandidate measures how ring-like the raw mask is around c.
//
// The annulus is every pixel whose distance d from the center satisfies
// max(1, r-t) <= d <= r+t, and the interior is every pixel with
// d <= max(1, r-InnerRadiusFactor*t), where t is RingThickness(r). Pixels are
// addressed by their integer coordinates, and only pixels inside the mask
// count. An empty annulus has a ring ratio of 0; an empty interior has an
// inner ratio of 1.
func ScoreCandidate(mask *image.Gray, c Circle, p Params) ScoredCandidate {
	t := p.RingThickness(c.R)
	ringLo := math.Max(1, c.R-t)
	ringHi := c.R + t
	innerR := math.Max(1, c.R-p.InnerRadiusFactor*t)

	ringLo2, ringHi2 := ringLo*ringLo, ringHi*ringHi
	innerR2 := innerR * innerR

	var ringTotal, ringOn, innerTotal, innerOn int
	forEachPixelWithin(mask, c.X, c.Y, math.Max(ringHi, innerR), func(v uint8, dx, dy float64) {
		d2 := dx*dx + dy*dy
		on := v != 0
		if d2 >= ringLo2 && d2 <= ringHi2 {
			ringTotal++
			if on {
				ringOn++
			}
		}
		if d2 <= innerR2 {
			innerTotal++
			if on {
				innerOn++
			}
		}
	})

	ringRatio := 0.0
	if ringTotal > 0 {
		ringRatio = float64(ringOn) / float64(ringTotal)
	}
	innerRatio := 1.0
	if innerTotal > 0 {
		innerRatio = float64(innerOn) / float64(innerTotal)
	}

	return ScoredCandidate{
		Circle:     c,
		RingRatio:  ringRatio,
		InnerRatio: innerRatio,
		Score:      (ringRatio - innerRatio) * ringRatio,
	}
}

// SelectBest scores every candidate and returns the first one with the
// strictly greatest score, or nil when there are no candidates.
func SelectBest(mask *image.Gray, candidates []Circle, p Params) *ScoredCandidate {
	var best *ScoredCandidate
	for _, c := range candidates {
		sc := ScoreCandidate(mask, c, p)
		if best == nil || sc.Score > best.Score {
			best = &sc
		}
	}
	return best
}

// passesRatioGates applies the strict ring, interior and score thresholds.
func (p Params) passesRatioGates(sc *ScoredCandidate) bool {
	return sc.RingRatio > p.MinRingRatio &&
		sc.InnerRatio < p.MaxInnerRatio &&
		sc.Score > p.MinScore
}

// forEachPixelWithin calls fn for every mask pixel in the bounding square of
// radius around (cx, cy) with the pixel value and its offset from the center.
func forEachPixelWithin(mask *image.Gray, cx, cy, radius float64, fn func(v uint8, dx, dy float64)) {
	bounds := mask.Bounds()
	x0 := max(bounds.Min.X, int(math.Floor(cx-radius)))
	y0 := max(bounds.Min.Y, int(math.Floor(cy-radius)))
	x1 := min(bounds.Max.X-1, int(math.Ceil(cx+radius)))
	y1 := min(bounds.Max.Y-1, int(math.Ceil(cy+radius)))

	for y := y0; y <= y1; y++ {
		dy := float64(y) - cy
		row := mask.Pix[(y-bounds.Min.Y)*mask.Stride:]
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			fn(row[x-bounds.Min.X], dx, dy)
		}
	}
}
