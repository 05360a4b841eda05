package detection

import (
	"image"
)

// Circle is a circle in image pixel coordinates.
type Circle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// ScoredCandidate is a Hough candidate together with its ring evidence.
type ScoredCandidate struct {
	Circle

	// RingRatio is the fraction of annulus pixels that are red.
	RingRatio float64 `json:"ring_ratio"`

	// InnerRatio is the fraction of interior pixels that are red.
	// It is 1.0 when the interior is empty.
	InnerRatio float64 `json:"inner_ratio"`

	// Score is (RingRatio - InnerRatio) * RingRatio.
	Score float64 `json:"score"`
}

// Reason says why a detection ended the way it did.
type Reason string

const (
	// ReasonFound means a ring passed every gate.
	ReasonFound Reason = "found"

	// ReasonNoCandidates means neither Hough pass produced a circle.
	ReasonNoCandidates Reason = "no_candidates"

	// ReasonWeakRing means the best candidate failed the ring, interior or score gate.
	ReasonWeakRing Reason = "weak_ring"

	// ReasonSparseAnnulus means too few mask pixels lie on the best circle.
	ReasonSparseAnnulus Reason = "sparse_annulus"

	// ReasonPartialArc means the mask pixels on the circle do not go far enough around it.
	ReasonPartialArc Reason = "partial_arc"
)

// Result is the outcome of running the pipeline on one image.
//
// The same shape is returned whether or not an overlay was requested.
type Result struct {
	// Found reports whether a ring was accepted.
	Found bool `json:"found"`

	// Circle is the accepted ring, nil when Found is false.
	Circle *Circle `json:"circle,omitempty"`

	// Best is the highest-scoring candidate, accepted or not. Nil when there
	// were no candidates.
	Best *ScoredCandidate `json:"best,omitempty"`

	// Candidates is the number of circles the Hough stage produced.
	Candidates int `json:"candidates"`

	// AnnulusPixels is the number of raw mask pixels on the best circle.
	// Only set once the ratio gates pass.
	AnnulusPixels int `json:"annulus_pixels"`

	// Coverage is the number of occupied angular sectors. Only set once
	// the annulus holds enough pixels.
	Coverage int `json:"coverage"`

	// Sectors is the number of sectors Coverage is out of.
	Sectors int `json:"sectors"`

	// Reason records the gate that decided the outcome.
	Reason Reason `json:"reason"`

	// Mask is the raw red mask, before closing and smoothing.
	Mask *image.Gray `json:"-"`

	// Overlay is the annotated image when requested: the source with the
	// accepted ring drawn on it, or the unmodified source when nothing was
	// found. Nil when not requested.
	Overlay image.Image `json:"-"`
}
