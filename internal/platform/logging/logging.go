package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initialises the global slog default logger writing to stdout.
// level may be "debug", "info", "warn", or "error" (default "info").
// format may be "json" or "text" (default "text").
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

func New(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
