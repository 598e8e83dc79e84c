package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	modules []registry.Module
}

// NewApp is the constructor for the main application. Plans are written to
// outW, logs to logW, and cfg comes from NewConfig. Without modules the
// core lookup mechanisms are used.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.logs, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules()
	}
	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		modules: modules,
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
