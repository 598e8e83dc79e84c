package part

import (
	"github.com/vk/partgrid/internal/dag"
)

// Closure returns roots and everything they transitively depend on,
// dependencies before dependents. Parts are visited once per identity; the
// first object seen for an identity represents it. Dependencies are
// explored in declaration order, so the result is stable. A dependency
// cycle is a *dag.CycleError naming the parts on it.
func Closure(roots ...Part) ([]Part, error) {
	g := dag.New()
	byID := make(map[string]Part)

	var add func(p Part) error
	add = func(p Part) error {
		id := ID(p)
		if _, seen := byID[id]; seen {
			return nil
		}
		byID[id] = p
		g.AddNode(id)
		for _, d := range p.Deps() {
			if err := add(d); err != nil {
				return err
			}
			if err := g.AddEdge(ID(d), id); err != nil {
				return err
			}
		}
		return nil
	}

	rootIDs := make([]string, 0, len(roots))
	for _, r := range roots {
		if err := add(r); err != nil {
			return nil, err
		}
		rootIDs = append(rootIDs, ID(r))
	}

	ids, err := g.Closure(rootIDs...)
	if err != nil {
		return nil, err
	}
	out := make([]Part, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out, nil
}

// DepClosure is the closure of p's dependencies, without p. Cycles through
// p are reported.
func DepClosure(p Part) ([]Part, error) {
	all, err := Closure(p.Deps()...)
	if err != nil {
		return nil, err
	}
	if _, err := Closure(p); err != nil {
		return nil, err
	}
	return all, nil
}
