package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// logSettings is the parsed form of Config.LogLevel and Config.LogFormat.
// The zero value logs at info level as text.
type logSettings struct {
	level slog.Level
	json  bool
}

// parseLogSettings accepts the level names slog understands (debug, info,
// warn, error, optionally with an offset such as "debug-2") and the text or
// json formats. Empty strings select the defaults.
func parseLogSettings(level, format string) (logSettings, error) {
	var s logSettings
	if level != "" {
		if err := s.level.UnmarshalText([]byte(level)); err != nil {
			return s, fmt.Errorf("invalid log-level %q: must be debug, info, warn or error", level)
		}
	}
	switch strings.ToLower(format) {
	case "", "text":
	case "json":
		s.json = true
	default:
		return s, fmt.Errorf("invalid log-format %q: must be text or json", format)
	}
	return s, nil
}

// newLogger creates the logger for s writing to w. It does not touch the
// global logger, so several apps can log independently.
func newLogger(s logSettings, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.level}
	if s.json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
