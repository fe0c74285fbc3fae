// Package logger builds the process-wide slog logger:
// colored text output for terminals, json for log collectors.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
)

type Options struct {
	Level     string
	Format    string
	NoColor   bool
	AddSource bool
}

func New(wrt io.Writer, opts Options) *slog.Logger {

	level := ParseLevel(opts.Level)

	var handler slog.Handler

	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(wrt, &slog.HandlerOptions{
			Level:     level,
			AddSource: opts.AddSource,
		})
	} else {
		handler = tint.NewHandler(wrt, &tint.Options{
			Level:      level,
			AddSource:  opts.AddSource,
			TimeFormat: "Jan 02 15:04:05",
			NoColor:    opts.NoColor,
		})
	}

	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
