package detection

import (
	"image"
	"math"
)

// Coverage is the angular distribution of mask pixels on a circle.
type Coverage struct {
	// Pixels is the number of mask pixels within the annulus.
	Pixels int

	// Histogram counts those pixels per angular sector. Sector 0 starts at
	// angle 0 (pointing right) and sectors advance with increasing
	// atan2(dy, dx) in image coordinates, i.e. clockwise on screen.
	Histogram []int

	// Covered is the number of non-empty sectors.
	Covered int
}

// AngularCoverage measures how far around c the raw mask pixels reach.
//
// Only pixels at distance r-t <= d <= r+t count. Each one is binned by its
// angle around the center into one of sectors equal sectors.
func AngularCoverage(mask *image.Gray, c Circle, t float64, sectors int) Coverage {
	if sectors < 1 {
		return Coverage{}
	}
	cov := Coverage{Histogram: make([]int, sectors)}

	lo := math.Max(0, c.R-t)
	hi := c.R + t
	lo2, hi2 := lo*lo, hi*hi

	forEachPixelWithin(mask, c.X, c.Y, hi, func(v uint8, dx, dy float64) {
		d2 := dx*dx + dy*dy
		if v == 0 || d2 < lo2 || d2 > hi2 {
			return
		}
		cov.Pixels++

		angle := math.Mod(math.Atan2(dy, dx)+2*math.Pi, 2*math.Pi)
		bin := int(math.Floor(angle / (2 * math.Pi) * float64(sectors)))
		cov.Histogram[min(bin, sectors-1)]++
	})

	for _, n := range cov.Histogram {
		if n > 0 {
			cov.Covered++
		}
	}
	return cov
}
