package sistosched

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	VERBOSE_SCHEDULER = false // trace preemptions and queue state of SRT / RR to stdout
	VERBOSE_SIM       = true  // log every configure / reset of the simulators at debug level
)

// NewLogger builds the structured logger used across the simulator.
// level is one of debug, info, warn, error (anything else is info).
func NewLogger(level string, json bool) *slog.Logger {
	return newLoggerTo(os.Stderr, level, json)
}

func newLoggerTo(w io.Writer, level string, json bool) *slog.Logger {
	ops := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, ops))
	}
	return slog.New(slog.NewTextHandler(w, ops))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

// a logger that drops everything, for callers that pass nil
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
