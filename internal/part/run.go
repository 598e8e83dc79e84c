package part

import (
	"fmt"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// RunSpec describes a run action.
type RunSpec struct {
	// Dir is where the command runs; defaults to the build directory.
	Dir string
	// Command is the argv to run. When empty, the native or bytecode
	// executable of the first bin dependency runs.
	Command []string
}

// Run performs an action, typically running a test executable, and
// produces an effect.
type Run struct {
	meta
	spec RunSpec
}

// NewRun creates a run part.
func NewRun(name string, spec RunSpec, opts ...Option) *Run {
	return &Run{meta: newMeta(KindRun, name, opts), spec: spec}
}

// Rules produces the run-<name> effect from every product of the
// dependencies.
func (rn *Run) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	tc, err := readToolchain(e)
	if err != nil {
		return nil, err
	}
	c := r.Cond(rn)

	var inputs []rule.Product
	for _, d := range rn.deps {
		inputs = append(inputs, r.Products(d)...)
	}

	argv := rn.spec.Command
	if len(argv) == 0 {
		argv, err = rn.defaultCommand(e, tc)
		if err != nil {
			return nil, err
		}
	}
	dir := rn.spec.Dir
	if dir == "" {
		dir = tc.build
	}

	effect := rule.Effect("run-"+rn.name, dir, c)
	cmd := command(args.RunCtx, argv[0], argv[1:], r.Args(rn))
	return []rule.Rule{rule.New(args.RunCtx, inputs, []rule.Product{effect}, cmd)}, nil
}

func (rn *Run) defaultCommand(e *env.Env, tc *toolchain) ([]string, error) {
	bins := Keep[*Bin](rn.deps)
	if len(bins) == 0 {
		return nil, fmt.Errorf("run %q has no command and no bin dependency", rn.name)
	}
	nativeOn, err := env.Get(e, bins[0].spec.Native)
	if err != nil {
		return nil, err
	}
	byteExe, nativeExe, err := bins[0].Executables(e)
	if err != nil {
		return nil, err
	}
	if nativeOn && tc.native {
		return []string{"./" + nativeExe}, nil
	}
	return []string{"./" + byteExe}, nil
}
