package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ironsheep/red-ring-finder/internal/batch"
	"github.com/ironsheep/red-ring-finder/internal/detection"
)

// Default crop padding, as used when the flags are absent.
const (
	DefaultPadScale = batch.DefaultPadScale
	DefaultMinPad   = batch.DefaultMinPad
)

// Run is the configuration of a batch run.
type Run struct {
	Batch  batch.Options
	Params detection.Params
	Log    Log
}

// Serve is the configuration of the tool server.
type Serve struct {
	Params detection.Params
	Log    Log
}

// Verify is the configuration of a manifest check.
type Verify struct {
	OutDir     string
	DigestPath string
	Log        Log
}

// common registers the flags shared by every command and returns a function
// that resolves them after parsing.
func common(fs *flag.FlagSet) func() (*File, error) {
	configPath := fs.String("config", "", "TOML file with detector and log settings")
	level := fs.String("log_level", "", "log level: debug, info, warn or error (default info, or $RING_FINDER_LOG_LEVEL)")
	format := fs.String("log_format", "", "log format: console or json (default console)")

	return func() (*File, error) {
		f, err := LoadFile(*configPath)
		if err != nil {
			return nil, err
		}
		if *level != "" {
			f.Log.Level = *level
		}
		if *format != "" {
			f.Log.Format = *format
		}
		return f, nil
	}
}

// parse runs fs over args, turning usage problems into *Error. flag.ErrHelp is
// returned unchanged so callers can exit cleanly on -h.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &Error{Err: err}
	}
	if fs.NArg() > 0 {
		return &Error{Err: fmt.Errorf("unexpected argument %q", fs.Arg(0))}
	}
	return nil
}

// ParseRun parses the arguments of a batch run.
//
// Parameters:
//   - args: Arguments after the program name.
//   - output: Destination for usage text.
//
// # Errors
//
//   - flag.ErrHelp if -h or --help was given
//   - *Error wrapping ErrMissing if --in_dir or --out_dir is absent
//   - *Error for a negative --pad_scale or --min_pad, or a bad config file
func ParseRun(args []string, output io.Writer) (*Run, error) {
	fs := flag.NewFlagSet("ring-finder", flag.ContinueOnError)
	fs.SetOutput(output)

	var opts batch.Options
	fs.StringVar(&opts.InDir, "in_dir", "", "folder with input images (required)")
	fs.StringVar(&opts.OutDir, "out_dir", "", "folder to write matched images into (required)")
	fs.StringVar(&opts.DebugDir, "debug_dir", "", "optional folder for mask, overlay and crop previews")
	fs.BoolVar(&opts.Crop, "crop", false, "save a square crop around the ring instead of the full image")
	fs.Float64Var(&opts.PadScale, "pad_scale", DefaultPadScale, "crop padding as a fraction of the radius")
	fs.IntVar(&opts.MinPad, "min_pad", DefaultMinPad, "minimum crop padding in pixels")
	resolve := common(fs)

	if err := parse(fs, args); err != nil {
		return nil, err
	}

	if opts.InDir == "" {
		return nil, &Error{Key: "in_dir", Err: ErrMissing}
	}
	if opts.OutDir == "" {
		return nil, &Error{Key: "out_dir", Err: ErrMissing}
	}
	if opts.PadScale < 0 {
		return nil, &Error{Key: "pad_scale", Err: fmt.Errorf("must not be negative, got %g", opts.PadScale)}
	}
	if opts.MinPad < 0 {
		return nil, &Error{Key: "min_pad", Err: fmt.Errorf("must not be negative, got %d", opts.MinPad)}
	}

	f, err := resolve()
	if err != nil {
		return nil, err
	}
	return &Run{Batch: opts, Params: f.Detection, Log: f.Log}, nil
}

// ParseServe parses the arguments of the serve command.
func ParseServe(args []string, output io.Writer) (*Serve, error) {
	fs := flag.NewFlagSet("ring-finder serve", flag.ContinueOnError)
	fs.SetOutput(output)
	resolve := common(fs)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	f, err := resolve()
	if err != nil {
		return nil, err
	}
	return &Serve{Params: f.Detection, Log: f.Log}, nil
}

// ParseVerify parses the arguments of the verify command.
func ParseVerify(args []string, output io.Writer) (*Verify, error) {
	fs := flag.NewFlagSet("ring-finder verify", flag.ContinueOnError)
	fs.SetOutput(output)

	var v Verify
	fs.StringVar(&v.OutDir, "out_dir", "", "folder holding matched.manifest (required)")
	fs.StringVar(&v.DigestPath, "digest", "", "digest file to check against (default <out_dir>/matched.manifest.md5)")
	resolve := common(fs)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if v.OutDir == "" {
		return nil, &Error{Key: "out_dir", Err: ErrMissing}
	}

	f, err := resolve()
	if err != nil {
		return nil, err
	}
	v.Log = f.Log
	return &v, nil
}
