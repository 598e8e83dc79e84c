package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/partgrid/internal/emit"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Path is a description file or a directory of .hcl files.
	Path string
	// Settings are key=value configuration overrides.
	Settings []string
	// Enable and Disable force atoms on or off.
	Enable  []string
	Disable []string
	// Static derives a plan valid for every atom assignment.
	Static bool
	// Format is the emitter, one of emit.Formats().
	Format string
	// Output is the file the plan is written to; empty means the app's
	// writer.
	Output string

	// LogFormat is text or json, LogLevel a slog level name.
	LogFormat string
	LogLevel  string

	logs logSettings
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Path == "" {
		return nil, errors.New("Path is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = string(emit.FormatMake)
	}
	if !contains(emit.Formats(), cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %s", cfg.Format, strings.Join(emit.Formats(), ", "))
	}
	logs, err := parseLogSettings(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	cfg.logs = logs
	for _, s := range cfg.Settings {
		if name, _, ok := strings.Cut(s, "="); !ok || name == "" {
			return nil, fmt.Errorf("invalid setting %q: expected key=value", s)
		}
	}
	for _, a := range cfg.Enable {
		if contains(cfg.Disable, a) {
			return nil, fmt.Errorf("atom %q is both enabled and disabled", a)
		}
	}
	return &cfg, nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
