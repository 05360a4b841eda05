package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/red-ring-finder/internal/detection"
	"github.com/ironsheep/red-ring-finder/internal/imaging"
	"github.com/ironsheep/red-ring-finder/internal/manifest"
)

// Default crop padding.
const (
	DefaultPadScale = 0.45
	DefaultMinPad   = 8
)

// Options controls a batch run.
type Options struct {
	// InDir is scanned (not recursively) for input images.
	InDir string

	// OutDir receives matched images, the manifest and its digest.
	OutDir string

	// DebugDir, when non-empty, receives per-image debug artifacts.
	DebugDir string

	// Crop saves a square JPEG crop around the ring instead of a copy.
	Crop bool

	// PadScale is the crop padding as a fraction of the radius.
	PadScale float64

	// MinPad is the minimum crop padding in pixels.
	MinPad int
}

// Summary describes a finished (or interrupted) run.
type Summary struct {
	// Scanned is the number of candidate image files listed.
	Scanned int `json:"scanned"`

	// Matched is the number of images in which a ring was found.
	Matched int `json:"matched"`

	// Skipped lists the names of files that could not be decoded.
	Skipped []string `json:"skipped,omitempty"`

	// Rejected counts non-matching images by the reason they were rejected.
	Rejected map[detection.Reason]int `json:"rejected,omitempty"`

	// Matches lists the output file written for each match, in order.
	Matches []Match `json:"matches,omitempty"`

	// OutDir is the output folder.
	OutDir string `json:"out_dir"`

	// Manifest is the manifest written at the end of the run.
	Manifest *manifest.Manifest `json:"manifest,omitempty"`
}

// Match records one accepted image.
type Match struct {
	Source string           `json:"source"`
	Output string           `json:"output"`
	Circle detection.Circle `json:"circle"`
}

// String returns the one-line run summary.
func (s *Summary) String() string {
	return fmt.Sprintf("Scanned %d images. Found %d matches. Output -> %s", s.Scanned, s.Matched, s.OutDir)
}

// Runner drives the detector over a folder.
type Runner struct {
	opts     Options
	detector *detection.Detector
	log      zerolog.Logger
}

// NewRunner creates a runner. The detector is shared and not modified.
func NewRunner(opts Options, detector *detection.Detector, log zerolog.Logger) *Runner {
	return &Runner{
		opts:     opts,
		detector: detector,
		log:      log.With().Str("component", "batch").Logger(),
	}
}

// ListImages returns the raster files directly inside dir, sorted by name.
// Subdirectories are ignored.
//
// # Errors
//
// Returns an error if dir cannot be read.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list input folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !imaging.IsRasterFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Run processes every image in the input folder and writes the manifest.
//
// The context is checked between images. When it is cancelled the run stops,
// no manifest is written, and the summary so far is returned along with the
// context's error.
//
// # Errors
//
//   - Returns error if a folder cannot be created or listed
//   - Returns error if any output file cannot be written
//   - Returns ctx.Err() if the context is cancelled
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		OutDir:   r.opts.OutDir,
		Rejected: make(map[detection.Reason]int),
	}

	if err := os.MkdirAll(r.opts.OutDir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create output folder: %w", err)
	}
	if r.opts.DebugDir != "" {
		if err := os.MkdirAll(r.opts.DebugDir, 0o755); err != nil {
			return summary, fmt.Errorf("failed to create debug folder: %w", err)
		}
	}

	names, err := ListImages(r.opts.InDir)
	if err != nil {
		return summary, err
	}
	summary.Scanned = len(names)
	r.log.Info().Str("in_dir", r.opts.InDir).Int("images", len(names)).Msg("scanning")

	written := make(map[string]string)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			r.log.Warn().Err(err).Msg("run interrupted")
			return summary, err
		}
		if err := r.processOne(name, summary, written); err != nil {
			return summary, err
		}
	}

	m, err := manifest.Write(r.opts.OutDir)
	if err != nil {
		return summary, err
	}
	summary.Manifest = m

	r.log.Info().
		Int("scanned", summary.Scanned).
		Int("matched", summary.Matched).
		Int("skipped", len(summary.Skipped)).
		Str("digest", m.Digest).
		Msg("run complete")
	return summary, nil
}

// processOne handles a single input file. Only output failures are returned.
func (r *Runner) processOne(name string, summary *Summary, written map[string]string) error {
	src := filepath.Join(r.opts.InDir, name)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	log := r.log.With().Str("file", name).Logger()

	img, err := imaging.Open(src)
	if err != nil {
		log.Warn().Err(err).Msg("skipping unreadable image")
		summary.Skipped = append(summary.Skipped, name)
		return nil
	}

	debug := r.opts.DebugDir != ""
	res := r.detector.Detect(img, debug)

	var cropped image.Image
	if res.Found {
		summary.Matched++

		c := *res.Circle
		var out string
		if r.opts.Crop {
			region := imaging.CropAroundCircle(img.Bounds(), c.X, c.Y, c.R, r.opts.PadScale, r.opts.MinPad)
			cropped = imaging.Crop(img, region)
			out = stem + ".jpg"
			if err := imaging.SaveJPEG(cropped, filepath.Join(r.opts.OutDir, out)); err != nil {
				return err
			}
		} else {
			out = name
			if err := copyFile(src, filepath.Join(r.opts.OutDir, out)); err != nil {
				return err
			}
		}

		if prev, ok := written[out]; ok {
			log.Warn().Str("output", out).Str("previous", prev).Msg("output overwritten by a later match")
		}
		written[out] = name
		summary.Matches = append(summary.Matches, Match{Source: name, Output: out, Circle: c})

		log.Info().
			Float64("x", c.X).Float64("y", c.Y).Float64("r", c.R).
			Float64("ring_ratio", res.Best.RingRatio).
			Int("coverage", res.Coverage).
			Str("output", out).
			Msg("ring found")
	} else {
		summary.Rejected[res.Reason]++
		event := log.Debug().Str("reason", string(res.Reason)).Int("candidates", res.Candidates)
		if res.Best != nil {
			event = event.Float64("ring_ratio", res.Best.RingRatio).Float64("inner_ratio", res.Best.InnerRatio)
		}
		event.Msg("no ring")
	}

	if debug {
		return r.writeDebug(stem, res, cropped)
	}
	return nil
}

// writeDebug saves the mask, the crop preview (when there is one) and the
// overlay for one image.
func (r *Runner) writeDebug(stem string, res *detection.Result, cropped image.Image) error {
	dir := r.opts.DebugDir
	if err := imaging.SavePNG(res.Mask, filepath.Join(dir, stem+"_mask.png")); err != nil {
		return err
	}
	if cropped != nil {
		if err := imaging.SavePNG(cropped, filepath.Join(dir, stem+"_crop.png")); err != nil {
			return err
		}
	}
	return imaging.SavePNG(res.Overlay, filepath.Join(dir, stem+"_overlay.png"))
}
