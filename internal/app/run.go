package app

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/emit"
	"github.com/vk/partgrid/internal/engine"
)

// Plan loads the description and derives its plan.
func (a *App) Plan(ctx context.Context) (*engine.Plan, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	p, reg, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	e, err := a.Env(p, reg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("Evaluating project.", "static", a.config.Static)
	plan, err := engine.Evaluate(ctx, p, e, engine.Options{Static: a.config.Static})
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	logger.Info("Plan derived.", "summary", plan.Summary())
	return plan, nil
}

// Run derives the plan and writes it in the configured format.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	plan, err := a.Plan(ctx)
	if err != nil {
		return err
	}
	if err := a.write(ctx, plan); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// write emits plan to the output file, replacing it only once the whole
// plan is rendered, or to the app's writer.
func (a *App) write(ctx context.Context, plan *engine.Plan) error {
	logger := ctxlog.FromContext(ctx)
	format := emit.Format(a.config.Format)
	if a.config.Output == "" {
		return emit.Emit(a.outW, format, plan)
	}

	var buf bytes.Buffer
	if err := emit.Emit(&buf, format, plan); err != nil {
		return err
	}
	if err := os.WriteFile(a.config.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	logger.Info("Plan written.", "path", a.config.Output, "format", a.config.Format)
	return nil
}
