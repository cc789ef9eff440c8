package core

import (
	"io"
	"log/slog"
)

// LogLevel picks the process log level from the output flags. Interactive
// runs only log warnings so the progress bar stays readable.
func LogLevel(flags NonInteractiveFlags, interactive bool) slog.Level {
	switch {
	case flags.Verbose:
		return slog.LevelDebug
	case flags.Mode == OutputQuiet:
		return slog.LevelError
	case interactive:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger. jsonFormat selects a JSON handler,
// used with --json so logs on stderr stay machine-readable too.
func NewLogger(w io.Writer, level slog.Level, jsonFormat bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
