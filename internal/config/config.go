// Package config turns command-line arguments and an optional TOML file into
// validated settings for the ring-finder commands.
//
// Detector thresholds come from detection.DefaultParams, overridden by the
// [detection] table of the file given with --config. Keys that do not map to a
// known setting are rejected rather than silently ignored.
//
// Example file:
//
//	[detection]
//	min_ring_ratio = 0.15
//	min_covered_sectors = 11
//
//	[[detection.red_bands]]
//	hue_min = 0
//	hue_max = 8
//	sat_min = 100
//	sat_max = 255
//	val_min = 90
//	val_max = 255
//
//	[log]
//	level = "debug"
//	format = "json"
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/red-ring-finder/internal/detection"
)

// ErrMissing is wrapped by Error when a required setting is absent.
var ErrMissing = errors.New("required setting is missing")

// Error reports a configuration problem. Configuration errors are fatal and
// are raised before any image is processed.
type Error struct {
	// Key names the offending flag or file key, e.g. "in_dir" or
	// "detection.min_ring_ratio".
	Key string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.Key == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Log holds logger settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// File is the layout of a TOML configuration file.
type File struct {
	Detection detection.Params `toml:"detection"`
	Log       Log              `toml:"log"`
}

// LoadFile reads a configuration file on top of the defaults. An empty path
// returns the defaults unchanged.
//
// # Errors
//
// Returns an *Error if the file cannot be read or parsed, contains an unknown
// key, or yields detector parameters that fail validation.
func LoadFile(path string) (*File, error) {
	f := &File{Detection: detection.DefaultParams()}
	if path == "" {
		return f, nil
	}

	md, err := toml.DecodeFile(path, f)
	if err != nil {
		return nil, &Error{Key: "config", Err: fmt.Errorf("failed to load %s: %w", path, err)}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, &Error{Key: undecoded[0].String(), Err: fmt.Errorf("unknown key in %s", path)}
	}

	if err := f.Detection.Validate(); err != nil {
		var pe *detection.ParamError
		if errors.As(err, &pe) {
			return nil, &Error{Key: "detection." + pe.Field, Err: err}
		}
		return nil, &Error{Key: "detection", Err: err}
	}
	return f, nil
}
