package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/hclexpr"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/value"
)

// construct performs the last pass, creating parts dependencies first. A
// part whose dependency failed is skipped; the dependency's error is
// reported instead.
func (s *storage) construct(ctx context.Context, scope hclexpr.Scope) (map[string]part.Part, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting part construction pass.")

	order, err := s.dag.TopoSort()
	if err != nil {
		return nil, err
	}
	built := make(map[string]part.Part, len(order))
	var errs error
	for _, id := range order {
		depIDs, err := s.dag.Dependencies(id)
		if err != nil {
			return nil, err
		}
		deps := make([]part.Part, 0, len(depIDs))
		for _, dep := range depIDs {
			if p, ok := built[dep]; ok {
				deps = append(deps, p)
			}
		}
		if len(deps) != len(depIDs) {
			logger.Debug("Skipping part with a failed dependency.", "id", id)
			continue
		}
		p, err := newPart(s.decls[id], deps, scope)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		built[id] = p
	}
	logger.Debug("Finished part construction pass.", "part_count", len(built))
	return built, errs
}

func newPart(d *decl, deps []part.Part, scope hclexpr.Scope) (part.Part, error) {
	name := d.addr.Name
	if d.discovered != nil {
		return part.NewUnit(name, *d.discovered, part.WithDeps(deps...)), nil
	}

	a := newAttrs(d.cfg, scope)
	a.get("deps")
	opts := []part.Option{part.WithDeps(deps...), part.WithCond(a.cond("cond"))}
	own, diags := translateArgs(d.cfg.Args, scope)
	a.diags = append(a.diags, diags...)

	var p part.Part
	switch d.addr.Kind {
	case part.KindUnit:
		spec := part.UnitSpec{Dir: a.str("dir")}
		a.parse("variant", func(s string) (err error) { spec.Variant, err = part.ParseVariant(s); return })
		a.parse("visibility", func(s string) (err error) { spec.Visibility, err = part.ParseVisibility(s); return })
		p = part.NewUnit(name, spec, append(opts, part.WithArgs(own))...)

	case part.KindLib:
		a.get("sources")
		spec := part.LibSpec{Byte: a.flag("byte"), Native: a.flag("native"), NativeDynlink: a.flag("native_dynlink")}
		p = part.NewLib(name, spec, append(opts, part.WithArgs(own))...)

	case part.KindBin:
		a.get("sources")
		spec := part.BinSpec{Byte: a.flag("byte"), Native: a.flag("native"), Js: a.flag("js")}
		p = part.NewBin(name, spec, append(opts, part.WithArgs(own))...)

	case part.KindPkg:
		spec := part.PkgSpec{Lookup: a.str("lookup")}
		if spec.Lookup == part.LookupOther {
			spec.Static = own
		} else {
			opts = append(opts, part.WithArgs(own))
		}
		p = part.NewPkg(name, spec, opts...)

	case part.KindRun:
		spec := part.RunSpec{Dir: a.str("dir"), Command: a.strs("command")}
		p = part.NewRun(name, spec, append(opts, part.WithArgs(own))...)

	case part.KindDoc:
		p = part.NewDoc(name, append(opts, part.WithArgs(own))...)

	case part.KindDir:
		var exts []string
		for _, e := range a.strs("filter") {
			exts = append(exts, strings.TrimPrefix(e, "."))
		}
		p = part.NewDir(name, part.DirSpec{Exts: exts}, append(opts, part.WithArgs(own))...)

	case part.KindSilo:
		p = part.NewSilo(name, append(opts, part.WithArgs(own))...)

	case part.KindCustom:
		spec := part.CustomSpec{Inputs: a.strs("inputs"), Outputs: a.strs("outputs"), Command: a.strs("command")}
		p = part.NewCustom(name, spec, append(opts, part.WithArgs(own))...)

	default:
		return nil, declErr(d.addr.String(), d.rng, "unsupported part kind %s", d.addr.Kind)
	}

	a.checkUnused()
	if a.diags.HasErrors() {
		return nil, &DeclError{Decl: d.addr.String(), Err: a.diags}
	}
	return p, nil
}

// translateArgs translates `args` blocks into arguments.
func translateArgs(blocks []*config.Args, scope hclexpr.Scope) (args.Args, hcl.Diagnostics) {
	out := args.Empty()
	var diags hcl.Diagnostics
	for _, b := range blocks {
		ctx, err := args.ParseContext(b.Context)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid args context",
				Detail:   err.Error() + ".",
				Subject:  b.Range.Ptr(),
			})
			continue
		}
		c := cond.True()
		if b.Cond != nil {
			var cdiags hcl.Diagnostics
			c, cdiags = hclexpr.Cond(b.Cond, scope)
			diags = append(diags, cdiags...)
		}
		out = args.Append(out, args.New(c, ctx, b.Values...))
	}
	return out, diags
}

// attrs reads the attributes of a part declaration, recording which ones
// the kind understands.
type attrs struct {
	p     *config.Part
	scope hclexpr.Scope
	known map[string]bool
	diags hcl.Diagnostics
}

func newAttrs(p *config.Part, scope hclexpr.Scope) *attrs {
	return &attrs{p: p, scope: scope, known: make(map[string]bool)}
}

func (a *attrs) get(name string) hcl.Expression {
	a.known[name] = true
	return a.p.Attr(name)
}

func (a *attrs) str(name string) string {
	expr := a.get(name)
	if expr == nil {
		return ""
	}
	s, diags := hclexpr.String(expr)
	a.diags = append(a.diags, diags...)
	return s
}

func (a *attrs) strs(name string) []string {
	expr := a.get(name)
	if expr == nil {
		return nil
	}
	s, diags := hclexpr.Strings(expr)
	a.diags = append(a.diags, diags...)
	return s
}

// flag returns the zero value when the attribute is absent, so the part's
// default applies.
func (a *attrs) flag(name string) value.Value[bool] {
	expr := a.get(name)
	if expr == nil {
		return value.Value[bool]{}
	}
	v, diags := hclexpr.Bool(expr, a.scope)
	a.diags = append(a.diags, diags...)
	return v
}

func (a *attrs) cond(name string) cond.Cond {
	expr := a.get(name)
	if expr == nil {
		return cond.True()
	}
	c, diags := hclexpr.Cond(expr, a.scope)
	a.diags = append(a.diags, diags...)
	return c
}

func (a *attrs) parse(name string, fn func(string) error) {
	s := a.str(name)
	if s == "" {
		return
	}
	if err := fn(s); err != nil {
		a.diags = append(a.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   err.Error() + ".",
			Subject:  a.p.Attr(name).Range().Ptr(),
		})
	}
}

// checkUnused reports attributes the kind does not understand.
func (a *attrs) checkUnused() {
	known := make([]string, 0, len(a.known))
	for n := range a.known {
		known = append(known, n)
	}
	for _, name := range attrNames(&decl{cfg: a.p}) {
		if a.known[name] {
			continue
		}
		detail := fmt.Sprintf("An argument named %q is not expected in a %s block.", name, a.p.Kind)
		if sug := value.Suggest(name, known); sug != "" {
			detail += fmt.Sprintf(" Did you mean %q?", sug)
		}
		a.diags = append(a.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported argument",
			Detail:   detail,
			Subject:  a.p.Attributes[name].Range().Ptr(),
		})
	}
}
