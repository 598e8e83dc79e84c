// Package rule holds the products and rules a part derives for an
// environment.
package rule

import (
	"fmt"
	"path"
	"strings"

	"github.com/vk/partgrid/internal/cond"
)

// ProductKind distinguishes files from effects.
type ProductKind uint8

const (
	FileProduct ProductKind = iota
	EffectProduct
)

// Product is a file or a named effect, with the condition under which it
// exists. Products are plain values.
type Product struct {
	kind ProductKind
	path string // file path, or effect directory
	name string // effect name
	cond cond.Cond
}

// File returns a file product. p is slash separated and relative to the
// project root.
func File(p string, c cond.Cond) Product {
	return Product{kind: FileProduct, path: path.Clean(p), cond: c}
}

// Effect returns an abstract side effect named name, performed in dir.
func Effect(name, dir string, c cond.Cond) Product {
	return Product{kind: EffectProduct, name: name, path: path.Clean(dir), cond: c}
}

func (p Product) Kind() ProductKind { return p.kind }
func (p Product) IsFile() bool      { return p.kind == FileProduct }
func (p Product) Cond() cond.Cond   { return p.cond }

// Path is the file path, or the directory of an effect.
func (p Product) Path() string { return p.path }

// Name is the effect name. It is empty for files.
func (p Product) Name() string { return p.name }

// Ext returns the file extension without the dot.
func (p Product) Ext() string {
	return strings.TrimPrefix(path.Ext(p.path), ".")
}

// Base returns the last element of the path.
func (p Product) Base() string { return path.Base(p.path) }

// WithCond returns p guarded by c instead of its own condition.
func (p Product) WithCond(c cond.Cond) Product {
	p.cond = c
	return p
}

// Key identifies a product independently of its condition.
func (p Product) Key() string {
	if p.kind == EffectProduct {
		return "effect:" + path.Join(p.path, p.name)
	}
	return "file:" + p.path
}

// Target is how a make-like backend names the product.
func (p Product) Target() string {
	if p.kind == EffectProduct {
		return path.Join(p.path, p.name)
	}
	return p.path
}

func (p Product) String() string {
	if p.cond.IsTrue() {
		return p.Key()
	}
	return fmt.Sprintf("%s [%s]", p.Key(), p.cond)
}

// Conds conjoins the conditions of ps.
func Conds(ps []Product) cond.Cond {
	cs := make([]cond.Cond, len(ps))
	for i, p := range ps {
		cs[i] = p.cond
	}
	return cond.And(cs...)
}

// Files keeps the file products of ps.
func Files(ps []Product) []Product {
	var out []Product
	for _, p := range ps {
		if p.IsFile() {
			out = append(out, p)
		}
	}
	return out
}

// WithExt keeps the file products whose extension is one of exts.
func WithExt(ps []Product, exts ...string) []Product {
	var out []Product
	for _, p := range ps {
		if !p.IsFile() {
			continue
		}
		for _, e := range exts {
			if p.Ext() == e {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Present keeps the products whose condition holds in table.
func Present(ps []Product, table cond.Table) []Product {
	var out []Product
	for _, p := range ps {
		if cond.Eval(table, p.cond) {
			out = append(out, p)
		}
	}
	return out
}
