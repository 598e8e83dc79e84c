package engine

import (
	"context"

	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/project"
	"github.com/vk/partgrid/internal/rule"
)

// Options tunes Evaluate.
type Options struct {
	// Static keeps everything whose condition is not identically false
	// instead of resolving conditions against the environment.
	Static bool
}

// state is the Resolved view handed to rule functions.
type state struct {
	conds    map[string]cond.Cond
	args     map[string]args.Args
	own      map[string]args.Args
	products map[string][]rule.Product
}

func (s *state) Cond(p part.Part) cond.Cond {
	if c, ok := s.conds[part.ID(p)]; ok {
		return c
	}
	return p.Cond()
}

func (s *state) Args(p part.Part) args.Args { return s.args[part.ID(p)] }

func (s *state) Products(p part.Part) []rule.Product { return s.products[part.ID(p)] }

// Evaluate derives the plan of proj in e.
func Evaluate(ctx context.Context, proj *project.Project, e *env.Env, opts Options) (*Plan, error) {
	logger := ctxlog.FromContext(ctx).With("project", proj.Name())
	logger.Debug("Evaluate: Starting derivation.", "static", opts.Static)

	closure, err := proj.Closure()
	if err != nil {
		return nil, err
	}
	logger.Debug("Evaluate: Closure computed.", "part_count", len(closure))

	present := func(c cond.Cond) bool {
		if opts.Static {
			return !cond.ToCNF(c).IsFalse()
		}
		return e.Holds(c)
	}

	s := &state{
		conds:    make(map[string]cond.Cond),
		args:     make(map[string]args.Args),
		own:      make(map[string]args.Args),
		products: make(map[string][]rule.Product),
	}
	plan := &Plan{
		Project: proj.Name(),
		Version: proj.Version(),
		Static:  opts.Static,
		Table:   e.Table(),
	}
	failed := make(map[string]bool)
	producers := make(map[string]string)
	var errs error
	var exercised []cond.Cond

	for _, p := range closure {
		id := part.ID(p)
		plog := logger.With("part", id)

		if dep := failedDep(p, failed); dep != "" {
			plog.Warn("Skipping part, a dependency failed.", "dependency", dep)
			failed[id] = true
			continue
		}

		conds := []cond.Cond{p.Cond()}
		for _, d := range p.Deps() {
			conds = append(conds, s.Cond(d))
		}
		c := cond.And(conds...)
		s.conds[id] = c
		exercised = append(exercised, c)

		if !present(c) {
			plog.Debug("Part is absent.", "cond", c.String())
			plan.Absent = append(plan.Absent, id)
			continue
		}

		own, err := p.Args(ctx, e)
		if err != nil {
			errs = multierr.Append(errs, &PartError{Part: id, Err: err})
			failed[id] = true
			continue
		}
		s.own[id] = own
		eff, err := effectiveArgs(proj.Args(), p, s)
		if err != nil {
			errs = multierr.Append(errs, &PartError{Part: id, Err: err})
			failed[id] = true
			continue
		}
		s.args[id] = eff

		rules, err := p.Rules(e, s)
		if err != nil {
			errs = multierr.Append(errs, &PartError{Part: id, Err: err})
			failed[id] = true
			continue
		}

		res := &PartResult{Part: p, ID: id, Cond: c, Args: eff}
		for _, r := range rules {
			if len(r.Outputs) == 0 {
				errs = multierr.Append(errs, &RuleError{Part: id, Rule: r.Context.String(), Msg: "rule has no outputs"})
				failed[id] = true
				continue
			}
			outs := keepPresent(r.Outputs, present)
			if len(outs) == 0 {
				continue
			}
			for _, o := range outs {
				if prev, dup := producers[o.Key()]; dup {
					errs = multierr.Append(errs, &DuplicateOutputError{Output: o.Key(), Parts: []string{prev, id}})
					failed[id] = true
					continue
				}
				producers[o.Key()] = id
				exercised = append(exercised, o.Cond())
			}
			r.Outputs = outs
			res.Rules = append(res.Rules, r)
			res.Products = append(res.Products, outs...)
		}
		if failed[id] {
			continue
		}
		s.products[id] = res.Products

		for _, ctxArgs := range args.Contexts(eff) {
			for _, entry := range args.Get(ctxArgs, eff) {
				exercised = append(exercised, entry.Cond)
			}
		}
		plan.Parts = append(plan.Parts, res)
		plan.Rules = append(plan.Rules, res.Rules...)
		plan.Products = append(plan.Products, res.Products...)
		plog.Debug("Part derived.", "rules", len(res.Rules), "products", len(res.Products))
	}

	if errs != nil {
		logger.Debug("Evaluate: Derivation failed.", "errors", len(multierr.Errors(errs)))
		return nil, errs
	}
	plan.Atoms = cond.Atoms(exercised...)
	logger.Info("Derivation complete.",
		"parts", len(plan.Parts), "absent", len(plan.Absent), "rules", len(plan.Rules), "products", len(plan.Products))
	return plan, nil
}

func failedDep(p part.Part, failed map[string]bool) string {
	for _, d := range p.Deps() {
		if failed[part.ID(d)] {
			return part.ID(d)
		}
	}
	return ""
}

// effectiveArgs is project args, then the own args of every present package
// in p's dependency closure, then p's own args.
func effectiveArgs(projectArgs args.Args, p part.Part, s *state) (args.Args, error) {
	deps, err := part.DepClosure(p)
	if err != nil {
		return args.Empty(), err
	}
	out := projectArgs
	for _, pkg := range part.Keep[*part.Pkg](deps) {
		out = args.Append(out, s.own[part.ID(pkg)])
	}
	return args.Append(out, s.own[part.ID(p)]), nil
}

func keepPresent(ps []rule.Product, present func(cond.Cond) bool) []rule.Product {
	var out []rule.Product
	for _, p := range ps {
		if present(p.Cond()) {
			out = append(out, p)
		}
	}
	return out
}
