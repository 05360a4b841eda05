package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/red-ring-finder/internal/imaging"
)

// HoughParams configures a single circle transform pass.
type HoughParams struct {
	// DP is the inverse accumulator resolution.
	DP float64

	// MinDist is the minimum distance between returned centers.
	MinDist float64

	// CannyHigh is the upper edge threshold; the lower one is half of it.
	CannyHigh float64

	// AccumThreshold is the vote count a center must exceed.
	AccumThreshold int

	// MinRadius and MaxRadius bound the searched radii, inclusive.
	MinRadius int
	MaxRadius int

	// RadiusBand is the half-width of the radius estimation window.
	RadiusBand float64
}

// CircleFinder locates circle candidates in a smoothed single-channel image.
//
// Implementations must be deterministic: the same input always produces the
// same candidates in the same order.
type CircleFinder interface {
	FindCircles(src *image.Gray, p HoughParams) []Circle
}

// GradientHough is a pure Go implementation of the two-stage Hough gradient
// method.
//
// # Algorithm
//
//  1. Edges: Canny edge detection with thresholds CannyHigh/2 and CannyHigh.
//
//  2. Center voting: every edge pixel casts one vote per radius in
//     [MinRadius, MaxRadius] on both sides of itself along its gradient
//     direction, into an accumulator whose cells are DP x DP pixels.
//
//  3. Center selection: accumulator cells above AccumThreshold that are local
//     maxima in the 4-neighborhood are visited in decreasing vote order (ties
//     in raster order). A center closer than MinDist to one already accepted
//     is skipped.
//
//  4. Radius estimation: distances from the center to every edge pixel in the
//     radius range are sorted, and a window of width 2*RadiusBand is slid over
//     them. The window with the most pixels per unit radius wins (the first
//     one on ties) provided it holds more than AccumThreshold pixels, and the
//     radius is the mean distance inside it.
//
// Candidates are returned in the order their centers were visited.
type GradientHough struct{}

type houghCenter struct {
	index int
	votes int
}

// FindCircles implements CircleFinder.
func (GradientHough) FindCircles(src *image.Gray, p HoughParams) []Circle {
	if p.MinRadius > p.MaxRadius || p.DP < 1 {
		return nil
	}
	edges := imaging.Canny(src, p.CannyHigh/2, p.CannyHigh)

	width, height := edges.Width, edges.Height
	idp := 1 / p.DP
	aw := int(math.Ceil(float64(width) * idp))
	ah := int(math.Ceil(float64(height) * idp))
	astep := aw + 2
	accum := make([]int, astep*(ah+2))

	var points []image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !edges.Edges[i] {
				continue
			}
			vx, vy := edges.DX[i], edges.DY[i]
			mag := math.Hypot(vx, vy)
			if mag == 0 {
				continue
			}
			points = append(points, image.Point{X: x, Y: y})

			ux, uy := vx/mag, vy/mag
			for _, sign := range [2]float64{1, -1} {
				for r := p.MinRadius; r <= p.MaxRadius; r++ {
					ax := (float64(x) + sign*float64(r)*ux) * idp
					ay := (float64(y) + sign*float64(r)*uy) * idp
					if ax < 0 || ay < 0 {
						break
					}
					cx, cy := int(ax), int(ay)
					if cx >= aw || cy >= ah {
						break
					}
					accum[(cy+1)*astep+cx+1]++
				}
			}
		}
	}

	var centers []houghCenter
	for y := 1; y <= ah; y++ {
		for x := 1; x <= aw; x++ {
			base := y*astep + x
			v := accum[base]
			if v > p.AccumThreshold &&
				v > accum[base-1] && v >= accum[base+1] &&
				v > accum[base-astep] && v >= accum[base+astep] {
				centers = append(centers, houghCenter{index: base, votes: v})
			}
		}
	}
	if len(centers) == 0 {
		return nil
	}
	sort.SliceStable(centers, func(i, j int) bool {
		return centers[i].votes > centers[j].votes
	})

	minDist2 := p.MinDist * p.MinDist
	minR2 := float64(p.MinRadius * p.MinRadius)
	maxR2 := float64(p.MaxRadius * p.MaxRadius)

	var circles []Circle
	dists := make([]float64, 0, len(points))
	for _, c := range centers {
		cx := (float64(c.index%astep-1) + 0.5) * p.DP
		cy := (float64(c.index/astep-1) + 0.5) * p.DP

		tooClose := false
		for _, prev := range circles {
			dx, dy := prev.X-cx, prev.Y-cy
			if dx*dx+dy*dy < minDist2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		dists = dists[:0]
		for _, pt := range points {
			dx := float64(pt.X) - cx
			dy := float64(pt.Y) - cy
			d2 := dx*dx + dy*dy
			if d2 >= minR2 && d2 <= maxR2 {
				dists = append(dists, math.Sqrt(d2))
			}
		}

		r, ok := estimateRadius(dists, p.RadiusBand, p.AccumThreshold)
		if !ok {
			continue
		}
		circles = append(circles, Circle{X: cx, Y: cy, R: r})
	}
	return circles
}

// estimateRadius picks the densest band of distances. dists is sorted in place.
func estimateRadius(dists []float64, band float64, threshold int) (float64, bool) {
	if len(dists) <= threshold {
		return 0, false
	}
	sort.Float64s(dists)

	width := 2 * band
	bestStart, bestEnd := -1, -1
	bestDensity := 0.0
	end := 0
	for start := range dists {
		if end < start {
			end = start
		}
		for end < len(dists) && dists[end]-dists[start] <= width {
			end++
		}
		count := end - start
		density := float64(count) / math.Max(dists[start]+band, 1)
		if density > bestDensity {
			bestDensity = density
			bestStart, bestEnd = start, end
		}
	}

	if bestStart < 0 || bestEnd-bestStart <= threshold {
		return 0, false
	}

	var sum float64
	for _, d := range dists[bestStart:bestEnd] {
		sum += d
	}
	return sum / float64(bestEnd-bestStart), true
}

// FindCandidates runs the circle finder over the smoothed mask, retrying once
// with a smaller maximum radius when the first pass finds nothing.
func FindCandidates(finder CircleFinder, smoothed *image.Gray, p Params) []Circle {
	circles := finder.FindCircles(smoothed, p.houghParams(p.MaxRadius))
	if len(circles) == 0 && p.RetryMaxRadius > 0 {
		circles = finder.FindCircles(smoothed, p.houghParams(p.RetryMaxRadius))
	}
	return circles
}
