// Package logging configures the zerolog logger. The TUI owns the terminal,
// so logs go to a file in the data directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Open creates the data directory if needed and returns a logger writing to
// aiswatch.log inside it, plus a closer for the underlying file.
func Open(dataDir, level string) (zerolog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, "aiswatch.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, f.Close, nil
}

// ParseLevel maps a config string to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
