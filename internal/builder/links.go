package builder

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/hclexpr"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/partid"
	"github.com/vk/partgrid/internal/value"
)

// linkNodes performs the second pass, adding an edge for every dependency
// and validating the references of every declaration.
func (s *storage) linkNodes(ctx context.Context, fsys fs.FS) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node linking pass.")

	var errs error
	// Units discovered on the way are appended to the graph; they have no
	// declaration to link.
	for _, id := range s.dag.Nodes() {
		d := s.decls[id]
		if d.cfg == nil {
			continue
		}
		logger.Debug("Processing dependencies for node.", "id", id)
		errs = multierr.Append(errs, validateReferences(d))
		errs = multierr.Append(errs, s.linkDeps(d))
		errs = multierr.Append(errs, s.linkSources(ctx, d, fsys))
	}
	logger.Debug("Finished node linking pass.", "node_count", len(s.decls))
	return errs
}

// linkDeps links the `deps` list, in order.
func (s *storage) linkDeps(d *decl) error {
	expr := d.cfg.Attr("deps")
	if expr == nil {
		return nil
	}
	id := d.addr.String()
	addrs, diags := hclexpr.Parts(expr)
	var errs error
	if diags.HasErrors() {
		errs = multierr.Append(errs, &DeclError{Decl: id, Err: diags})
	}
	for _, a := range addrs {
		dep := a.String()
		if _, ok := s.decls[dep]; !ok {
			errs = multierr.Append(errs, s.unknownDep(d, a))
			continue
		}
		if err := s.dag.AddEdge(dep, id); err != nil {
			errs = multierr.Append(errs, &DeclError{Decl: id, Range: expr.Range(), Err: err})
		}
	}
	return errs
}

// linkSources links the units discovered by a lib or bin `sources` glob,
// after the explicit dependencies.
func (s *storage) linkSources(ctx context.Context, d *decl, fsys fs.FS) error {
	expr := d.cfg.Attr("sources")
	if expr == nil || (d.addr.Kind != part.KindLib && d.addr.Kind != part.KindBin) {
		return nil
	}
	units, err := s.discoverUnits(ctx, d, expr, fsys)
	id := d.addr.String()
	for _, u := range units {
		if lerr := s.dag.AddEdge(u, id); lerr != nil {
			err = multierr.Append(err, &DeclError{Decl: id, Range: expr.Range(), Err: lerr})
		}
	}
	return err
}

func (s *storage) unknownDep(d *decl, a partid.Address) error {
	id := d.addr.String()
	msg := fmt.Sprintf("unknown dependency %s", a)
	if sug := value.Suggest(a.String(), s.ids()); sug != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", sug)
	}
	return &DeclError{Decl: id, Range: d.rng, Err: fmt.Errorf("%s", msg)}
}

// validateReferences checks that attributes other than `deps` only
// reference atoms and keys, and call no functions.
func validateReferences(d *decl) error {
	c := hclexpr.NewContainer()
	for _, name := range attrNames(d) {
		if name != "deps" {
			c.Add(d.cfg.Attributes[name])
		}
	}
	for _, a := range d.cfg.Args {
		c.Add(a.Cond)
	}

	id := d.addr.String()
	var errs error
	for _, t := range c.References() {
		root := t.RootName()
		switch {
		case root == hclexpr.RootAtom || root == hclexpr.RootKey:
		case isKind(root):
			errs = multierr.Append(errs, declErr(id, t.SourceRange(), "part reference %s is only allowed in deps", hclexpr.TraversalKey(t)))
		default:
			errs = multierr.Append(errs, declErr(id, t.SourceRange(), "unknown reference %s", hclexpr.TraversalKey(t)))
		}
	}
	for _, fn := range c.CalledFunctions() {
		errs = multierr.Append(errs, declErr(id, d.rng, "function calls are not supported: %s()", fn))
	}
	return errs
}

func isKind(s string) bool {
	k, err := part.ParseKind(s)
	return err == nil && k != part.KindBase
}

func attrNames(d *decl) []string {
	names := make([]string, 0, len(d.cfg.Attributes))
	for n := range d.cfg.Attributes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
