package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/vk/partgrid/internal/engine"
)

// Format names an output format.
type Format string

const (
	FormatMake Format = "make"
	FormatYAML Format = "yaml"
)

// Func renders a plan to w.
type Func func(w io.Writer, p *engine.Plan) error

var emitters = map[Format]Func{
	FormatMake: Makefile,
	FormatYAML: YAML,
}

// Formats lists the known formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(emitters))
	for f := range emitters {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// Emit renders p to w in format f.
func Emit(w io.Writer, f Format, p *engine.Plan) error {
	fn, ok := emitters[f]
	if !ok {
		return fmt.Errorf("unknown output format %q", f)
	}
	return fn(w, p)
}
