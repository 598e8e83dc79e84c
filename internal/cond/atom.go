package cond

import (
	"fmt"
	"sort"
	"sync"
)

// Atom is a named proposition with a default truth value. Atoms are equal
// when their names are equal.
type Atom struct {
	name string
	def  bool
	doc  string
}

// NewAtom declares an atom without registering it. Registries enforce name
// uniqueness; use Registry.Create in project code.
func NewAtom(def bool, name, doc string) *Atom {
	return &Atom{name: name, def: def, doc: doc}
}

func (a *Atom) Name() string  { return a.name }
func (a *Atom) Default() bool { return a.def }
func (a *Atom) Doc() string   { return a.doc }

// DuplicateAtomError is returned when an atom name is already taken.
type DuplicateAtomError struct {
	Name string
}

// Error implements the error interface for DuplicateAtomError.
func (e *DuplicateAtomError) Error() string {
	return fmt.Sprintf("atom %q is already defined", e.Name)
}

// Registry owns the atoms of one project and rejects duplicate names.
type Registry struct {
	mu    sync.RWMutex
	atoms map[string]*Atom
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{atoms: make(map[string]*Atom)}
}

// Create allocates and registers a fresh atom.
func (r *Registry) Create(def bool, name, doc string) (*Atom, error) {
	a := NewAtom(def, name, doc)
	if err := r.Register(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Register adds a predeclared atom. Registering the same atom twice is a
// no-op; another atom with the same name is a *DuplicateAtomError.
func (r *Registry) Register(a *Atom) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.atoms[a.name]; ok {
		if existing == a {
			return nil
		}
		return &DuplicateAtomError{Name: a.name}
	}
	r.atoms[a.name] = a
	return nil
}

// Lookup returns the atom named name.
func (r *Registry) Lookup(name string) (*Atom, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.atoms[name]
	return a, ok
}

// Atoms returns all atoms sorted by name.
func (r *Registry) Atoms() []*Atom {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Atom, 0, len(r.atoms))
	for _, a := range r.atoms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Names returns the sorted atom names.
func (r *Registry) Names() []string {
	atoms := r.Atoms()
	names := make([]string, len(atoms))
	for i, a := range atoms {
		names[i] = a.name
	}
	return names
}
