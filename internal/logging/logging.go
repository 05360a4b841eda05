// Package logging builds the structured logger shared by every command.
//
// Logs always go to stderr in normal use: the batch runner prints its summary
// on stdout, and the tool server owns stdout for protocol traffic.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LevelEnv is consulted when no level is given explicitly.
const LevelEnv = "RING_FINDER_LOG_LEVEL"

// Output formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to w.
//
// Parameters:
//   - w: Destination, typically os.Stderr.
//   - level: One of trace, debug, info, warn, error (case-insensitive). Empty
//     means the value of RING_FINDER_LOG_LEVEL, or info if that is unset too.
//   - format: FormatConsole for human-readable lines, FormatJSON for one JSON
//     object per line. Empty means console.
//
// # Errors
//
// Returns an error for an unknown level or format.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(ResolveLevel(level))
	if err != nil {
		return zerolog.Nop(), err
	}

	switch strings.ToLower(format) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (want %s or %s)", format, FormatConsole, FormatJSON)
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// ResolveLevel returns level, or the environment override when level is empty.
func ResolveLevel(level string) string {
	if level != "" {
		return level
	}
	return os.Getenv(LevelEnv)
}

// ParseLevel converts a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}
