package builder

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/hclexpr"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/partid"
)

// discoverUnits expands the `sources` globs of d against fsys and returns
// the IDs of the matching units, sorted. Files are grouped into units by
// base name; a .ml and a .mli of the same name form one unit. A declared
// unit of the same name is used as is, otherwise a unit is synthesized.
func (s *storage) discoverUnits(ctx context.Context, d *decl, expr hcl.Expression, fsys fs.FS) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	id := d.addr.String()

	patterns, diags := sourcePatterns(expr)
	if diags.HasErrors() {
		return nil, &DeclError{Decl: id, Err: diags}
	}

	var errs error
	found := make(map[string]*part.UnitSpec)
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = multierr.Append(errs, declErr(id, expr.Range(), "invalid sources pattern %q", pattern))
			continue
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			errs = multierr.Append(errs, &DeclError{Decl: id, Range: expr.Range(), Err: err})
			continue
		}
		logger.Debug("Expanded sources pattern.", "id", id, "pattern", pattern, "match_count", len(matches))
		for _, m := range matches {
			ext := path.Ext(m)
			if ext != ".ml" && ext != ".mli" {
				continue
			}
			name := strings.TrimSuffix(path.Base(m), ext)
			dir := path.Dir(m)
			if spec, ok := found[name]; ok {
				if spec.Dir != dir {
					errs = multierr.Append(errs, declErr(id, expr.Range(), "unit %q found in both %s and %s", name, spec.Dir, dir))
				}
				continue
			}
			found[name] = &part.UnitSpec{Dir: dir, Variant: variantOf(fsys, dir, name)}
		}
	}

	names := make([]string, 0, len(found))
	for n := range found {
		names = append(names, n)
	}
	sort.Strings(names)

	var ids []string
	for _, name := range names {
		if !partid.ValidName(name) {
			errs = multierr.Append(errs, declErr(id, expr.Range(), "source %s does not name a valid unit", path.Join(found[name].Dir, name)))
			continue
		}
		addr := partid.New(part.KindUnit, name)
		uid := addr.String()
		if existing, ok := s.decls[uid]; ok {
			if existing.discovered != nil && existing.discovered.Dir != found[name].Dir {
				errs = multierr.Append(errs, declErr(id, expr.Range(), "unit %q found in both %s and %s", name, existing.discovered.Dir, found[name].Dir))
				continue
			}
			ids = append(ids, uid)
			continue
		}
		logger.Debug("Creating discovered unit node.", "id", uid, "dir", found[name].Dir)
		s.add(&decl{addr: addr, discovered: found[name], rng: d.rng})
		ids = append(ids, uid)
	}
	return ids, errs
}

// sourcePatterns accepts a single pattern or a list of patterns.
func sourcePatterns(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.Type() == cty.String && !val.IsNull() {
		return []string{val.AsString()}, nil
	}
	return hclexpr.Strings(expr)
}

func variantOf(fsys fs.FS, dir, name string) part.Variant {
	_, implErr := fs.Stat(fsys, path.Join(dir, name+".ml"))
	_, intfErr := fs.Stat(fsys, path.Join(dir, name+".mli"))
	switch {
	case implErr == nil && intfErr == nil:
		return part.Both
	case implErr == nil:
		return part.ImplOnly
	}
	return part.IntfOnly
}
