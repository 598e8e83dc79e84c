package builder

import (
	"sort"

	"github.com/vk/partgrid/internal/dag"
)

// storage holds the declaration graph while a description is built. The
// dag owns the topology; decls is a fast, ID-based lookup of what each node
// was declared as.
type storage struct {
	decls map[string]*decl
	dag   *dag.Graph
}

func newStorage() *storage {
	return &storage{
		decls: make(map[string]*decl),
		dag:   dag.New(),
	}
}

func (s *storage) add(d *decl) {
	id := d.addr.String()
	s.decls[id] = d
	s.dag.AddNode(id)
}

// ids returns every declared ID, sorted.
func (s *storage) ids() []string {
	out := make([]string, 0, len(s.decls))
	for id := range s.decls {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
