//go:build !opencv

package detection

// defaultFinder returns the circle finder used by NewDetector.
func defaultFinder() CircleFinder {
	return GradientHough{}
}
