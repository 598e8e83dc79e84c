package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/hclexpr"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/project"
	"github.com/vk/partgrid/internal/value"
)

// Build constructs a complete, validated project from a description model.
func Build(ctx context.Context, model *config.Model, opts Options) (*project.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting project construction.")

	if model == nil || model.Project == nil {
		return nil, errors.New("description has no project block")
	}
	fsys := opts.FS
	if fsys == nil {
		root := model.Root
		if root == "" {
			root = "."
		}
		fsys = os.DirFS(root)
	}

	atoms, err := declareAtoms(model.Atoms)
	if err != nil {
		return nil, err
	}
	keys, err := declareKeys(model.Keys)
	if err != nil {
		return nil, err
	}
	own, err := value.Of(keys...)
	if err != nil {
		return nil, err
	}
	scope := hclexpr.Scope{Atoms: atoms, Keys: env.Builtin().Merge(own)}
	logger.Debug("Build: Declarations complete.", "atom_count", len(atoms.Names()), "key_count", len(keys))

	s := newStorage()
	if err := s.createNodes(ctx, model.Parts); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(s.decls))

	if err := s.linkNodes(ctx, fsys); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	if err := s.dag.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	built, err := s.construct(ctx, scope)
	if err != nil {
		return nil, err
	}
	// Declaration order, discovered units last.
	parts := make([]part.Part, 0, len(built))
	for _, id := range s.dag.Nodes() {
		parts = append(parts, built[id])
	}

	projectOpts, err := projectOptions(model, scope, keys)
	if err != nil {
		return nil, err
	}
	projectOpts = append(projectOpts, project.WithParts(parts...))
	p, err := project.New(model.Project.Name, projectOpts...)
	if err != nil {
		return nil, &DeclError{Decl: "project." + model.Project.Name, Range: model.Project.Range, Err: err}
	}

	logger.Info("Build: Project construction successful.", "project", p.Name(), "part_count", len(parts))
	return p, nil
}

// projectOptions translates the project block, the features and the
// settings.
func projectOptions(model *config.Model, scope hclexpr.Scope, keys []value.AnyKey) ([]project.Option, error) {
	name := "project." + model.Project.Name
	opts := []project.Option{
		project.WithAtoms(scope.Atoms),
		project.WithKeys(keys...),
		project.WithSettings(model.Settings),
	}
	if model.Project.Version != "" {
		opts = append(opts, project.WithVersion(model.Project.Version))
	}

	a, diags := translateArgs(model.Project.Args, scope)
	if diags.HasErrors() {
		return nil, &DeclError{Decl: name, Err: diags}
	}
	opts = append(opts, project.WithArgs(a))

	names := make([]string, 0, len(model.Features))
	for n := range model.Features {
		names = append(names, n)
	}
	sort.Strings(names)
	truth := make(cond.Table, len(names))
	for _, n := range names {
		if _, ok := scope.Atoms.Lookup(n); !ok {
			msg := fmt.Sprintf("feature %q names no atom", n)
			if sug := value.Suggest(n, scope.Atoms.Names()); sug != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", sug)
			}
			return nil, &DeclError{Decl: "features", Err: errors.New(msg)}
		}
		truth[n] = model.Features[n]
	}
	return append(opts, project.WithTruth(truth)), nil
}
