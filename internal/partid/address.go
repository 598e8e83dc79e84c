package partid

// String serializes the address into its canonical `kind.name` form, which
// is also part.ID of the addressed part.
func (a Address) String() string {
	return a.Kind.String() + "." + a.Name
}

// Less orders addresses by kind, then name.
func (a Address) Less(other Address) bool {
	if a.Kind != other.Kind {
		return a.Kind < other.Kind
	}
	return a.Name < other.Name
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a.Name == ""
}
