package partid

import "github.com/vk/partgrid/internal/part"

// Address identifies a part by kind and name.
type Address struct {
	Kind part.Kind
	Name string
}

// New creates an address.
func New(kind part.Kind, name string) Address {
	return Address{Kind: kind, Name: name}
}

// Of returns the address of p.
func Of(p part.Part) Address {
	return Address{Kind: p.Kind(), Name: p.Name()}
}
