package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Converter is the parse/print pair used to read a key from text (command
// line, environment) and to render it back for documentation and plans.
type Converter[T any] struct {
	Name  string
	Parse func(string) (T, error)
	Print func(T) string
}

// Bool converts "true"/"false" (and the other forms strconv accepts).
var Bool = Converter[bool]{
	Name: "bool",
	Parse: func(s string) (bool, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return false, fmt.Errorf("expected a boolean, got %q", s)
		}
		return b, nil
	},
	Print: strconv.FormatBool,
}

// String is the identity converter.
var String = Converter[string]{
	Name:  "string",
	Parse: func(s string) (string, error) { return s, nil },
	Print: func(s string) string { return s },
}

// Int converts base-10 integers.
var Int = Converter[int]{
	Name: "int",
	Parse: func(s string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", s)
		}
		return n, nil
	},
	Print: strconv.Itoa,
}

// Strings converts a comma separated list. Empty elements are dropped.
var Strings = Converter[[]string]{
	Name: "strings",
	Parse: func(s string) ([]string, error) {
		var out []string
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out, nil
	},
	Print: func(v []string) string { return strings.Join(v, ",") },
}
