package partid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/partgrid/internal/part"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidName reports whether s can name a part.
func ValidName(s string) bool {
	if s == "-" || strings.HasPrefix(s, "--") {
		return false
	}
	return nameRegex.MatchString(s)
}

// Parse creates an Address from its canonical string representation.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("part address cannot be empty")
	}
	kindStr, name, ok := strings.Cut(raw, ".")
	if !ok {
		return Address{}, fmt.Errorf("part address %q must have the form kind.name", raw)
	}
	kind, err := part.ParseKind(kindStr)
	if err != nil || kind == part.KindBase {
		return Address{}, fmt.Errorf("part address %q: unknown part kind %q", raw, kindStr)
	}
	if !ValidName(name) {
		return Address{}, fmt.Errorf("invalid part name: %q", name)
	}
	return Address{Kind: kind, Name: name}, nil
}

// ParseAll parses every address in raws, failing on the first error.
func ParseAll(raws []string) ([]Address, error) {
	out := make([]Address, 0, len(raws))
	for _, r := range raws {
		a, err := Parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
