package builder

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/value"
)

// declareAtoms returns a registry holding the built-in atoms followed by
// the declared ones.
func declareAtoms(atoms []*config.Atom) (*cond.Registry, error) {
	reg := cond.NewRegistry()
	if err := env.RegisterAtoms(reg); err != nil {
		return nil, err
	}
	var errs error
	for _, a := range atoms {
		if _, err := reg.Create(a.Default, a.Name, a.Doc); err != nil {
			errs = multierr.Append(errs, &DeclError{Decl: "atom." + a.Name, Range: a.Range, Err: err})
		}
	}
	return reg, errs
}

// declareKeys converts key declarations. Built-in keys cannot be
// redeclared.
func declareKeys(keys []*config.Key) ([]value.AnyKey, error) {
	builtin := env.Builtin()
	seen := make(map[string]bool, len(keys))
	var out []value.AnyKey
	var errs error
	for _, k := range keys {
		name := "key." + k.Name
		if _, ok := builtin.Lookup(k.Name); ok {
			errs = multierr.Append(errs, declErr(name, k.Range, "redeclares the built-in key %q", k.Name))
			continue
		}
		if seen[k.Name] {
			errs = multierr.Append(errs, &DeclError{Decl: name, Range: k.Range, Err: &value.DuplicateKeyError{Name: k.Name}})
			continue
		}
		seen[k.Name] = true

		key, err := newKey(k)
		if err != nil {
			errs = multierr.Append(errs, &DeclError{Decl: name, Range: k.Range, Err: err})
			continue
		}
		out = append(out, key)
	}
	return out, errs
}

func newKey(k *config.Key) (value.AnyKey, error) {
	opts := []value.KeyOption{value.Doc(k.Doc)}
	if k.Public {
		opts = append(opts, value.Public())
	}
	switch {
	case k.Type.Equals(cty.String):
		return typedKey(k, value.String, opts)
	case k.Type.Equals(cty.Bool):
		return typedKey(k, value.Bool, opts)
	case k.Type.Equals(cty.Number):
		return typedKey(k, value.Int, opts)
	case k.Type.Equals(cty.List(cty.String)):
		return typedKey(k, value.Strings, opts)
	}
	return nil, fmt.Errorf("unsupported key type %s", k.Type.FriendlyName())
}

func typedKey[T any](k *config.Key, conv value.Converter[T], opts []value.KeyOption) (value.AnyKey, error) {
	var def value.Value[T]
	if k.Default != nil && !k.Default.IsNull() {
		converted, err := convert.Convert(*k.Default, k.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid default: %w", err)
		}
		var v T
		if err := gocty.FromCtyValue(converted, &v); err != nil {
			return nil, fmt.Errorf("invalid default: %w", err)
		}
		def = value.Const(v)
	}
	return value.NewKey(k.Name, conv, def, opts...), nil
}
