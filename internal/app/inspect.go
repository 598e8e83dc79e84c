package app

import (
	"context"
)

// AtomInfo describes an atom and its value in the configured environment.
type AtomInfo struct {
	Name    string
	Default bool
	Value   bool
	Doc     string
}

// KeyInfo describes a configuration key and its current value.
type KeyInfo struct {
	Name    string
	Type    string
	Value   string
	Default string
	Public  bool
	Set     bool
	Doc     string
}

// Atoms lists the project's atoms, sorted by name.
func (a *App) Atoms(ctx context.Context) ([]AtomInfo, error) {
	p, reg, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	e, err := a.Env(p, reg)
	if err != nil {
		return nil, err
	}
	table := e.Table()

	atoms := p.Atoms().Atoms()
	out := make([]AtomInfo, 0, len(atoms))
	for _, at := range atoms {
		v, ok := table[at.Name()]
		if !ok {
			v = at.Default()
		}
		out = append(out, AtomInfo{Name: at.Name(), Default: at.Default(), Value: v, Doc: at.Doc()})
	}
	return out, nil
}

// Keys lists the configuration keys, sorted by name.
func (a *App) Keys(ctx context.Context) ([]KeyInfo, error) {
	p, reg, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	e, err := a.Env(p, reg)
	if err != nil {
		return nil, err
	}
	cfg := e.Config()

	keys := cfg.Keys()
	out := make([]KeyInfo, 0, len(keys))
	for _, k := range keys {
		v, err := cfg.Print(k.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, KeyInfo{
			Name:    k.Name(),
			Type:    k.TypeName(),
			Value:   v,
			Default: k.DefaultString(),
			Public:  k.Public(),
			Set:     cfg.IsSet(k.Name()),
			Doc:     k.Doc(),
		})
	}
	return out, nil
}
