package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// AnyKey is the type-erased view of a Key used by Configuration.
type AnyKey interface {
	Name() string
	Public() bool
	Doc() string
	DocValue() string
	TypeName() string
	// DefaultString renders the key's default expression.
	DefaultString() string

	defaultNode() node
	parse(s string) (any, error)
	print(v any) string
	fromCty(v cty.Value) (any, error)
}

type keyMeta struct {
	public bool
	doc    string
	docv   string
}

// KeyOption configures a key at construction.
type KeyOption func(*keyMeta)

// Public marks the key as settable from outside the project (command line,
// description file config block).
func Public() KeyOption { return func(m *keyMeta) { m.public = true } }

// Doc sets the key's documentation string.
func Doc(doc string) KeyOption { return func(m *keyMeta) { m.doc = doc } }

// DocValue names the key's value in help output, e.g. "PATH".
func DocValue(docv string) KeyOption { return func(m *keyMeta) { m.docv = docv } }

// Key names a typed configuration slot.
type Key[T any] struct {
	keyMeta
	name string
	conv Converter[T]
	def  Value[T]
}

// NewKey creates a key. The default may depend on other keys.
func NewKey[T any](name string, conv Converter[T], def Value[T], opts ...KeyOption) *Key[T] {
	k := &Key[T]{name: name, conv: conv, def: def}
	for _, opt := range opts {
		opt(&k.keyMeta)
	}
	return k
}

func (k *Key[T]) Name() string          { return k.name }
func (k *Key[T]) Public() bool          { return k.public }
func (k *Key[T]) Doc() string           { return k.doc }
func (k *Key[T]) DocValue() string      { return k.docv }
func (k *Key[T]) TypeName() string      { return k.conv.Name }
func (k *Key[T]) Default() Value[T]     { return k.def }
func (k *Key[T]) DefaultString() string { return k.def.String() }

func (k *Key[T]) defaultNode() node { return orZero(k.def.n, *new(T)) }

func (k *Key[T]) parse(s string) (any, error) {
	if k.conv.Parse == nil {
		return nil, fmt.Errorf("key %q has no parser", k.name)
	}
	return k.conv.Parse(s)
}

func (k *Key[T]) print(v any) string {
	t, ok := v.(T)
	if !ok || k.conv.Print == nil {
		return fmt.Sprintf("%v", v)
	}
	return k.conv.Print(t)
}

// fromCty decodes a description-file value into the key's Go type.
func (k *Key[T]) fromCty(v cty.Value) (any, error) {
	var out T
	ty, err := gocty.ImpliedType(out)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", k.name, err)
	}
	converted, err := convert.Convert(v, ty)
	if err != nil {
		return nil, fmt.Errorf("cannot use %s as %s: %w", v.Type().FriendlyName(), k.conv.Name, err)
	}
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, err
	}
	return out, nil
}
