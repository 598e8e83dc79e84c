package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/project"
	"github.com/vk/partgrid/internal/rule"
	"github.com/vk/partgrid/internal/value"
)

type lookups map[string]env.PackageLookup

func (l lookups) Mechanism(kind string) (env.PackageLookup, bool) {
	m, ok := l[kind]
	return m, ok
}

type lookupFunc func(pkg string) (args.Args, error)

func (f lookupFunc) Lookup(_ context.Context, pkg string) (args.Args, error) { return f(pkg) }

func evaluate(t *testing.T, p *project.Project, cfg *value.Configuration, opts Options, envOpts ...env.Option) (*Plan, error) {
	t.Helper()
	e, err := env.New(cfg, envOpts...)
	require.NoError(t, err)
	return Evaluate(context.Background(), p, e, opts)
}

func mustProject(t *testing.T, opts ...project.Option) *project.Project {
	t.Helper()
	p, err := project.New("demo", opts...)
	require.NoError(t, err)
	return p
}

func ruleIndex(plan *Plan, target string) int {
	for i, r := range plan.Rules {
		for _, o := range r.Outputs {
			if o.Target() == target {
				return i
			}
		}
	}
	return -1
}

func TestEvaluate_LibWithNativeDisabled(t *testing.T) {
	a := part.NewUnit("a", part.UnitSpec{})
	b := part.NewUnit("b", part.UnitSpec{}, part.WithDeps(a))
	core := part.NewLib("core", part.LibSpec{}, part.WithDeps(a, b))
	proj := mustProject(t, project.WithParts(core))

	cfg, err := value.Set(proj.Configuration(), env.KeyNative, false)
	require.NoError(t, err)
	plan, err := evaluate(t, proj, cfg, Options{})
	require.NoError(t, err)

	assert.Empty(t, rule.WithExt(plan.Products, "cmxa", "a", "cmxs"), "no native archives")
	cmas := rule.WithExt(plan.Products, "cma")
	require.Len(t, cmas, 1)
	assert.Equal(t, "_build/lib-core/core.cma", cmas[0].Target())
	assert.True(t, cmas[0].Cond().IsTrue(), "got %s", cmas[0].Cond())

	compileA := ruleIndex(plan, "_build/a.cmo")
	compileB := ruleIndex(plan, "_build/b.cmo")
	require.NotEqual(t, -1, compileA)
	require.NotEqual(t, -1, compileB)
	assert.Less(t, compileA, compileB)
	assert.Less(t, compileB, ruleIndex(plan, "_build/lib-core/core.cma"))
}

func TestEvaluate_DiamondOrder(t *testing.T) {
	a := part.NewUnit("a", part.UnitSpec{})
	b := part.NewUnit("b", part.UnitSpec{}, part.WithDeps(a))
	c := part.NewUnit("c", part.UnitSpec{}, part.WithDeps(a))
	d := part.NewLib("d", part.LibSpec{}, part.WithDeps(b, c))
	proj := mustProject(t, project.WithParts(d))

	plan, err := evaluate(t, proj, proj.Configuration(), Options{})
	require.NoError(t, err)

	ids := make([]string, len(plan.Parts))
	for i, r := range plan.Parts {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"unit.a", "unit.b", "unit.c", "lib.d"}, ids)
}

func TestEvaluate_FalseCondition(t *testing.T) {
	r := cond.NewRegistry()
	always, err := r.Create(true, "always", "")
	require.NoError(t, err)

	a := part.NewUnit("a", part.UnitSpec{}, part.WithCond(cond.Of(always)))
	off := part.NewLib("off", part.LibSpec{}, part.WithDeps(a), part.WithCond(cond.False()))
	user := part.NewBin("user", part.BinSpec{}, part.WithDeps(off))
	proj := mustProject(t, project.WithParts(user), project.WithAtoms(r))

	for _, static := range []bool{false, true} {
		plan, err := evaluate(t, proj, proj.Configuration(), Options{Static: static},
			env.WithTruth(cond.Table{"always": true}))
		require.NoError(t, err)

		_, ok := plan.Part("lib.off")
		assert.False(t, ok, "static=%v", static)
		_, ok = plan.Part("bin.user")
		assert.False(t, ok, "dependents of an absent part are absent")
		assert.Equal(t, []string{"lib.off", "bin.user"}, plan.Absent)
		for _, p := range plan.Products {
			assert.NotContains(t, p.Target(), "off")
		}
	}
}

func TestEvaluate_StaticKeepsConditionalParts(t *testing.T) {
	r := cond.NewRegistry()
	profile, err := r.Create(false, "profile", "")
	require.NoError(t, err)

	a := part.NewUnit("a", part.UnitSpec{})
	prof := part.NewLib("prof", part.LibSpec{}, part.WithDeps(a), part.WithCond(cond.Of(profile)))
	proj := mustProject(t, project.WithParts(prof), project.WithAtoms(r))

	resolved, err := evaluate(t, proj, proj.Configuration(), Options{})
	require.NoError(t, err)
	_, ok := resolved.Part("lib.prof")
	assert.False(t, ok)

	static, err := evaluate(t, proj, proj.Configuration(), Options{Static: true})
	require.NoError(t, err)
	res, ok := static.Part("lib.prof")
	require.True(t, ok)
	assert.Equal(t, "profile", res.Cond.String())
	for _, p := range res.Products {
		assert.Equal(t, "profile", p.Cond().String())
	}
	assert.Contains(t, atomNames(static.Atoms), "profile")
}

func atomNames(as []*cond.Atom) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name()
	}
	return out
}

func TestEvaluate_EffectiveArgs(t *testing.T) {
	unix := part.NewPkg("unix", part.PkgSpec{})
	a := part.NewUnit("a", part.UnitSpec{}, part.WithDeps(unix),
		part.WithArgs(args.New(cond.True(), args.CompileByte, "-own")))
	proj := mustProject(t,
		project.WithParts(a),
		project.WithArgs(args.New(cond.True(), args.CompileByte, "-project")))

	find := lookupFunc(func(pkg string) (args.Args, error) {
		return args.New(cond.True(), args.CompileByte, "-I", "+"+pkg), nil
	})
	plan, err := evaluate(t, proj, proj.Configuration(), Options{}, env.WithLookups(lookups{"ocamlfind": find}))
	require.NoError(t, err)

	res, ok := plan.Part("unit.a")
	require.True(t, ok)
	assert.Equal(t, []string{"-project", "-I", "+unix", "-own"},
		args.Flatten(args.Get(args.CompileByte, res.Args), nil))

	cmi := plan.Rules[ruleIndex(plan, "_build/a.cmi")]
	assert.Equal(t,
		[]string{"ocamlc", "-c", "-project", "-I", "+unix", "-own", "-I", "_build", "-o", "_build/a.cmi", "a.mli"},
		cmi.Commands(plan.Table)[0])
}

func TestEvaluate_FailuresAreAggregated(t *testing.T) {
	missing := part.NewPkg("missing", part.PkgSpec{})
	zlib := part.NewPkg("zlib", part.PkgSpec{Lookup: part.LookupPkgConfig})
	a := part.NewUnit("a", part.UnitSpec{}, part.WithDeps(missing))
	b := part.NewUnit("b", part.UnitSpec{}, part.WithDeps(a))
	c := part.NewUnit("c", part.UnitSpec{}, part.WithDeps(zlib))
	ok := part.NewUnit("ok", part.UnitSpec{})
	proj := mustProject(t, project.WithParts(b, c, ok))

	notFound := errors.New("package not found")
	find := lookupFunc(func(string) (args.Args, error) { return args.Empty(), notFound })
	_, err := evaluate(t, proj, proj.Configuration(), Options{}, env.WithLookups(lookups{"ocamlfind": find}))
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2, "dependents of failed parts are skipped, not reported")

	var perr *PartError
	require.True(t, errors.As(errs[0], &perr))
	assert.Equal(t, "pkg.missing", perr.Part)
	assert.ErrorIs(t, errs[0], notFound)

	require.True(t, errors.As(errs[1], &perr))
	assert.Equal(t, "pkg.zlib", perr.Part)
	var lerr *env.LookupError
	assert.True(t, errors.As(errs[1], &lerr))
}

func TestEvaluate_StructuralRuleErrors(t *testing.T) {
	t.Run("duplicate output", func(t *testing.T) {
		x := part.NewCustom("x", part.CustomSpec{Outputs: []string{"gen.ml"}})
		y := part.NewCustom("y", part.CustomSpec{Outputs: []string{"gen.ml"}})
		proj := mustProject(t, project.WithParts(x, y))

		_, err := evaluate(t, proj, proj.Configuration(), Options{})
		var dup *DuplicateOutputError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "file:_build/gen.ml", dup.Output)
		assert.Equal(t, []string{"custom.x", "custom.y"}, dup.Parts)
	})

	t.Run("rule without outputs", func(t *testing.T) {
		empty := part.NewCustom("empty", part.CustomSpec{
			Func: func(*env.Env, part.Resolved) ([]rule.Rule, error) {
				return []rule.Rule{rule.New(part.CustomCtx, nil, nil)}, nil
			},
		})
		proj := mustProject(t, project.WithParts(empty))

		_, err := evaluate(t, proj, proj.Configuration(), Options{})
		var rerr *RuleError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, "custom.empty", rerr.Part)
	})
}

func TestEvaluate_RulesKeepOnlyPresentOutputs(t *testing.T) {
	r := cond.NewRegistry()
	profile, err := r.Create(false, "profile", "")
	require.NoError(t, err)

	gen := part.NewCustom("gen", part.CustomSpec{
		Func: func(*env.Env, part.Resolved) ([]rule.Rule, error) {
			return []rule.Rule{rule.New(part.CustomCtx, nil, []rule.Product{
				rule.File("gen.ml", cond.True()),
				rule.File("gen_prof.ml", cond.Of(profile)),
			})}, nil
		},
	})
	proj := mustProject(t, project.WithParts(gen), project.WithAtoms(r))

	resolved, err := evaluate(t, proj, proj.Configuration(), Options{})
	require.NoError(t, err)
	require.Len(t, resolved.Rules, 1)
	assert.Equal(t, []string{"gen.ml"}, targetsOf(resolved.Rules[0].Outputs))
	assert.Equal(t, []string{"gen.ml"}, targetsOf(resolved.Products))

	static, err := evaluate(t, proj, proj.Configuration(), Options{Static: true})
	require.NoError(t, err)
	require.Len(t, static.Rules, 1)
	assert.Equal(t, []string{"gen.ml", "gen_prof.ml"}, targetsOf(static.Rules[0].Outputs))
}

func targetsOf(ps []rule.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Target()
	}
	return out
}

func TestPlan_Summary(t *testing.T) {
	p := &Plan{Project: "demo", Absent: []string{"doc.api"}}
	assert.Equal(t, "demo: 0 parts, 0 rules, 0 products (absent: doc.api)", p.Summary())
}
