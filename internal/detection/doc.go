// Package detection finds a single thin red ring outline in an image.
//
// The pipeline is a fixed sequence of stages, each exposed on its own so it
// can be tested and reused:
//
//  1. ColorMask: HSV segmentation into a binary "red" mask. Red wraps around
//     the hue circle, so two bands are used, one at each end.
//  2. CleanMask: morphological closing to bridge small breaks in the outline,
//     then Gaussian smoothing.
//  3. FindCandidates: Hough gradient circle transform on the smoothed mask.
//  4. ScoreCandidate / SelectBest: compare the raw mask inside a thin annulus
//     around each candidate with the mask inside its interior. A ring is red on
//     the annulus and empty inside; a filled disk is red in both places.
//  5. AngularCoverage: require red pixels all the way around the circle, so
//     that an arc or a curved stroke is not mistaken for a ring.
//
// Detector wires the stages together with a Params value and returns a Result
// describing the outcome, including which gate rejected the image.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Pixel (x, y) is treated as the point (x, y) when measuring distances
//
// # Circle Finder Backends
//
// GradientHough is a pure Go transform and the default. Building with the
// opencv tag switches NewDetector to OpenCVHough, which calls into OpenCV
// through gocv and needs the OpenCV shared libraries at run time.
//
// # Determinism
//
// Given the same image and Params, Detect returns identical results across
// runs. Candidates are produced in a fixed order and ties in score go to the
// earlier candidate.
package detection
