package value

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

type binding struct {
	key AnyKey
	val any
	set bool
}

// Configuration maps key names to keys and, optionally, bound values. It is
// copy-on-write: every operation returns a new Configuration and never
// mutates the receiver, so a Configuration can be shared freely.
type Configuration struct {
	bindings map[string]binding
}

// Empty returns a configuration without keys.
func Empty() *Configuration {
	return &Configuration{bindings: make(map[string]binding)}
}

// Of returns a configuration holding the given keys, all unbound.
func Of(keys ...AnyKey) (*Configuration, error) {
	c := Empty()
	for _, k := range keys {
		if _, exists := c.bindings[k.Name()]; exists {
			return nil, &DuplicateKeyError{Name: k.Name()}
		}
		c.bindings[k.Name()] = binding{key: k}
	}
	return c, nil
}

func (c *Configuration) clone() *Configuration {
	out := &Configuration{bindings: make(map[string]binding, len(c.bindings)+1)}
	for name, b := range c.bindings {
		out.bindings[name] = b
	}
	return out
}

func (c *Configuration) names() []string {
	names := make([]string, 0, len(c.bindings))
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of keys.
func (c *Configuration) Len() int { return len(c.bindings) }

// Add returns c extended with k, unbound. A key with the same name already
// present is a *DuplicateKeyError, whatever its type.
func (c *Configuration) Add(k AnyKey) (*Configuration, error) {
	if _, exists := c.bindings[k.Name()]; exists {
		return nil, &DuplicateKeyError{Name: k.Name()}
	}
	out := c.clone()
	out.bindings[k.Name()] = binding{key: k}
	return out, nil
}

// Set returns c with k bound to v, adding k if needed. A key of the same
// name but another type is a *KeyError.
func Set[T any](c *Configuration, k *Key[T], v T) (*Configuration, error) {
	if b, ok := c.bindings[k.Name()]; ok && b.key.TypeName() != k.TypeName() {
		return nil, &KeyError{Name: k.Name(), Msg: fmt.Sprintf("is a %s key, cannot bind a %s", b.key.TypeName(), k.TypeName())}
	}
	out := c.clone()
	out.bindings[k.Name()] = binding{key: k, val: v, set: true}
	return out, nil
}

// SetString parses raw with the converter of the key named name and binds
// the result. Unknown names and parse failures are *KeyError.
func (c *Configuration) SetString(name, raw string) (*Configuration, error) {
	b, ok := c.bindings[name]
	if !ok {
		return nil, &KeyError{Name: name, Msg: "unknown key", Suggestion: Suggest(name, c.names())}
	}
	v, err := b.key.parse(raw)
	if err != nil {
		return nil, &KeyError{Name: name, Msg: "invalid value", Err: err}
	}
	out := c.clone()
	out.bindings[name] = binding{key: b.key, val: v, set: true}
	return out, nil
}

// SetCty binds the key named name from a description-file value.
func (c *Configuration) SetCty(name string, v cty.Value) (*Configuration, error) {
	b, ok := c.bindings[name]
	if !ok {
		return nil, &KeyError{Name: name, Msg: "unknown key", Suggestion: Suggest(name, c.names())}
	}
	val, err := b.key.fromCty(v)
	if err != nil {
		return nil, &KeyError{Name: name, Msg: "invalid value", Err: err}
	}
	out := c.clone()
	out.bindings[name] = binding{key: b.key, val: val, set: true}
	return out, nil
}

// Merge returns the union of c and o. On a name present in both, o's key
// and binding win.
func (c *Configuration) Merge(o *Configuration) *Configuration {
	out := c.clone()
	for name, b := range o.bindings {
		out.bindings[name] = b
	}
	return out
}

// Subset keeps the keys of c whose names appear in o.
func (c *Configuration) Subset(o *Configuration) *Configuration {
	out := Empty()
	for name, b := range c.bindings {
		if _, ok := o.bindings[name]; ok {
			out.bindings[name] = b
		}
	}
	return out
}

// Diff keeps the keys of c whose names do not appear in o.
func (c *Configuration) Diff(o *Configuration) *Configuration {
	out := Empty()
	for name, b := range c.bindings {
		if _, ok := o.bindings[name]; !ok {
			out.bindings[name] = b
		}
	}
	return out
}

// Keys returns the keys sorted by name.
func (c *Configuration) Keys() []AnyKey {
	keys := make([]AnyKey, 0, len(c.bindings))
	for _, name := range c.names() {
		keys = append(keys, c.bindings[name].key)
	}
	return keys
}

// Lookup returns the key named name.
func (c *Configuration) Lookup(name string) (AnyKey, bool) {
	b, ok := c.bindings[name]
	return b.key, ok
}

// IsSet reports whether the key named name has an explicit binding.
func (c *Configuration) IsSet(name string) bool {
	return c.bindings[name].set
}

// Get evaluates the key named name: its binding, or its default.
func (c *Configuration) Get(name string) (any, error) {
	b, ok := c.bindings[name]
	if !ok {
		return nil, &KeyError{Name: name, Msg: "not in configuration", Suggestion: Suggest(name, c.names())}
	}
	return lookupNode{key: b.key}.eval(&evalState{cfg: c, active: make(map[string]bool)})
}

// Print renders the current value of the key named name with its converter.
func (c *Configuration) Print(name string) (string, error) {
	v, err := c.Get(name)
	if err != nil {
		return "", err
	}
	return c.bindings[name].key.print(v), nil
}
