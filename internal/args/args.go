package args

import (
	"sort"

	"github.com/vk/partgrid/internal/cond"
)

// Entry is one conditional group of raw arguments.
type Entry struct {
	Cond cond.Cond
	Args []string
}

// Args maps contexts to ordered entry lists. Values are immutable; every
// operation returns a new Args.
type Args struct {
	m map[Context][]Entry
}

// Empty is the identity of Append.
func Empty() Args { return Args{} }

// New makes a singleton entry for ctx.
func New(c cond.Cond, ctx Context, raw ...string) Args {
	cp := make([]string, len(raw))
	copy(cp, raw)
	return Args{m: map[Context][]Entry{ctx: {{Cond: c, Args: cp}}}}
}

// ForAll repeats the same entry in each of ctxs.
func ForAll(c cond.Cond, ctxs []Context, raw ...string) Args {
	out := Empty()
	for _, ctx := range ctxs {
		out = Append(out, New(c, ctx, raw...))
	}
	return out
}

// Append concatenates a and b context-wise. Entries of a come first; equal
// conditions are never merged.
func Append(a, b Args) Args {
	if len(b.m) == 0 {
		return a
	}
	if len(a.m) == 0 {
		return b
	}
	m := make(map[Context][]Entry, len(a.m)+len(b.m))
	for ctx, es := range a.m {
		m[ctx] = es
	}
	for ctx, es := range b.m {
		prev := m[ctx]
		merged := make([]Entry, 0, len(prev)+len(es))
		merged = append(merged, prev...)
		merged = append(merged, es...)
		m[ctx] = merged
	}
	return Args{m: m}
}

// Concat folds Append over as.
func Concat(as ...Args) Args {
	out := Empty()
	for _, a := range as {
		out = Append(out, a)
	}
	return out
}

// Get returns the ordered entries for ctx.
func Get(ctx Context, a Args) []Entry {
	es := a.m[ctx]
	if len(es) == 0 {
		return nil
	}
	out := make([]Entry, len(es))
	copy(out, es)
	return out
}

// Contexts lists the contexts with at least one entry, sorted by phase,
// mode and tag.
func Contexts(a Args) []Context {
	out := make([]Context, 0, len(a.m))
	for ctx, es := range a.m {
		if len(es) > 0 {
			out = append(out, ctx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.Phase != y.Phase {
			return x.Phase < y.Phase
		}
		if x.Mode != y.Mode {
			return x.Mode < y.Mode
		}
		return x.Tag < y.Tag
	})
	return out
}

// IsEmpty reports whether a has no entries.
func (a Args) IsEmpty() bool { return len(Contexts(a)) == 0 }

// Flatten keeps the entries whose condition holds in table and joins their
// arguments in order. It is meant for emitters; the accumulator itself
// never evaluates conditions.
func Flatten(entries []Entry, table cond.Table) []string {
	var out []string
	for _, e := range entries {
		if cond.Eval(table, e.Cond) {
			out = append(out, e.Args...)
		}
	}
	return out
}
