package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ironsheep/red-ring-finder/internal/batch"
	"github.com/ironsheep/red-ring-finder/internal/config"
	"github.com/ironsheep/red-ring-finder/internal/detection"
	"github.com/ironsheep/red-ring-finder/internal/logging"
	"github.com/ironsheep/red-ring-finder/internal/manifest"
	"github.com/ironsheep/red-ring-finder/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "ring-finder %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return exitOK
		case "--help", "-h", "help":
			printHelp(stdout)
			return exitOK
		case "serve":
			return runServe(ctx, args[1:], stdin, stdout, stderr)
		case "verify":
			return runVerify(args[1:], stdout, stderr)
		}
	}
	return runBatch(ctx, args, stdout, stderr)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "ring-finder - find images containing a thin red ring")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ring-finder --in_dir <dir> --out_dir <dir> [options]")
	fmt.Fprintln(w, "  ring-finder serve [options]")
	fmt.Fprintln(w, "  ring-finder verify --out_dir <dir> [--digest <file>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch options:")
	fmt.Fprintln(w, "  --in_dir <dir>       Folder with input images (required)")
	fmt.Fprintln(w, "  --out_dir <dir>      Folder for matched images and matched.manifest (required)")
	fmt.Fprintln(w, "  --debug_dir <dir>    Write mask, overlay and crop previews here")
	fmt.Fprintln(w, "  --crop               Save a JPEG crop around the ring instead of a copy")
	fmt.Fprintf(w, "  --pad_scale <f>      Crop padding as a fraction of the radius (default %g)\n", config.DefaultPadScale)
	fmt.Fprintf(w, "  --min_pad <n>        Minimum crop padding in pixels (default %d)\n", config.DefaultMinPad)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common options:")
	fmt.Fprintln(w, "  --config <file>      TOML file with [detection] and [log] settings")
	fmt.Fprintln(w, "  --log_level <level>  debug, info, warn or error (default info)")
	fmt.Fprintln(w, "  --log_format <fmt>   console or json (default console)")
	fmt.Fprintln(w, "  --version, -v        Print version information")
	fmt.Fprintln(w, "  --help, -h           Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Default log level\n", logging.LevelEnv)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs go to stderr. In serve mode the MCP protocol uses stdin/stdout.")
}

// configExit reports a parse failure and returns the matching exit code.
func configExit(err error, stderr io.Writer) int {
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(stderr, "ring-finder: %v\n", err)
	return exitConfig
}

func newLogger(cfg config.Log, stderr io.Writer) (zerolog.Logger, error) {
	log, err := logging.New(stderr, cfg.Level, cfg.Format)
	if err != nil {
		return log, &config.Error{Key: "log", Err: err}
	}
	return log, nil
}

func runBatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.ParseRun(args, stderr)
	if err != nil {
		return configExit(err, stderr)
	}
	log, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return configExit(err, stderr)
	}
	det, err := detection.NewDetector(cfg.Params)
	if err != nil {
		return configExit(err, stderr)
	}

	log.Debug().Str("version", Version).Str("commit", GitCommit).Msg("starting batch run")

	summary, err := batch.NewRunner(cfg.Batch, det, log).Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("batch run failed")
		return exitFailure
	}

	fmt.Fprintln(stdout, summary.String())
	for _, name := range summary.Skipped {
		fmt.Fprintf(stdout, "Skipped (unreadable): %s\n", name)
	}
	return exitOK
}

func runServe(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.ParseServe(args, stderr)
	if err != nil {
		return configExit(err, stderr)
	}
	log, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return configExit(err, stderr)
	}
	det, err := detection.NewDetector(cfg.Params)
	if err != nil {
		return configExit(err, stderr)
	}

	srv := server.New(det, log, Version)
	if err := srv.Serve(ctx, stdin, stdout); err != nil {
		log.Error().Err(err).Msg("server error")
		return exitFailure
	}
	return exitOK
}

func runVerify(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.ParseVerify(args, stderr)
	if err != nil {
		return configExit(err, stderr)
	}
	log, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return configExit(err, stderr)
	}

	m, err := manifest.Verify(cfg.OutDir, cfg.DigestPath)
	switch {
	case errors.Is(err, manifest.ErrDigestMismatch):
		fmt.Fprintf(stdout, "MISMATCH %s (%d files)\n", cfg.OutDir, len(m.Entries))
		log.Warn().Err(err).Msg("manifest does not match")
		return exitFailure
	case err != nil:
		log.Error().Err(err).Msg("verification failed")
		return exitFailure
	}

	fmt.Fprintf(stdout, "OK %s  %s (%d files)\n", m.Digest, cfg.OutDir, len(m.Entries))
	return exitOK
}
