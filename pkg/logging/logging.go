// Package logging configures structured logging for settleup.
//
// Text output is colored with tint; JSON output is meant for log shippers.
//
//	logging.Setup()                              // LOG_LEVEL env, text
//	logging.Configure(os.Stderr, "debug", "json")
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, "text")))
}

// Configure installs the default logger from config values. An empty level
// falls back to LOG_LEVEL.
func Configure(w io.Writer, level, format string) error {
	lvl := levelFromEnv()
	if level != "" {
		var err error
		if lvl, err = ParseLevel(level); err != nil {
			return err
		}
	}
	slog.SetDefault(slog.New(NewHandler(w, lvl, format)))
	return nil
}

// NewHandler returns a tint handler for "text" and a JSON handler for "json".
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func levelFromEnv() slog.Level {
	lvl, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}
