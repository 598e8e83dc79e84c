package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/builder"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/project"
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/internal/value"
)

// Load reads and builds the description, and registers the project with a
// fresh registry holding the app's lookup mechanisms.
func (a *App) Load(ctx context.Context) (*project.Project, *registry.Registry, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading description...", "path", a.config.Path)

	model, err := a.loader.Load(ctx, a.config.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load description: %w", err)
	}
	logger.Debug("Description loaded and translated into unified model.", "part_count", len(model.Parts))

	p, err := builder.Build(ctx, model, builder.Options{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build project: %w", err)
	}

	reg, err := registry.New(a.modules...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register modules: %w", err)
	}
	if err := reg.AddProject(p); err != nil {
		return nil, nil, err
	}
	if err := reg.Validate(ctx); err != nil {
		return nil, nil, fmt.Errorf("registry validation failed: %w", err)
	}
	logger.Debug("Registry validation passed.", "mechanisms", reg.Kinds())
	return p, reg, nil
}

// Env applies the configured settings and atom overrides to the project's
// configuration. Atom overrides win over the project's features, which win
// over the values derived from boolean keys.
func (a *App) Env(p *project.Project, lookups env.Lookups) (*env.Env, error) {
	cfg := p.Configuration()
	var errs error
	for _, s := range a.config.Settings {
		name, raw, _ := strings.Cut(s, "=")
		next, err := cfg.SetString(strings.TrimSpace(name), raw)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		cfg = next
	}

	truth := p.Truth()
	override := func(names []string, v bool) {
		for _, n := range names {
			if _, ok := p.Atoms().Lookup(n); !ok {
				msg := fmt.Sprintf("unknown atom %q", n)
				if sug := value.Suggest(n, p.Atoms().Names()); sug != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", sug)
				}
				errs = multierr.Append(errs, fmt.Errorf("%s", msg))
				continue
			}
			truth[n] = v
		}
	}
	override(a.config.Enable, true)
	override(a.config.Disable, false)
	if errs != nil {
		return nil, errs
	}
	return env.New(cfg, env.WithTruth(truth), env.WithLookups(lookups))
}
