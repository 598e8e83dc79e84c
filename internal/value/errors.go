package value

import (
	"fmt"
	"sort"

	"github.com/agext/levenshtein"
)

// KeyError reports a failed key access: a lookup of a key missing from the
// configuration, a cyclic default, or a value the key's converter rejects.
type KeyError struct {
	Name       string
	Msg        string
	Suggestion string
	Err        error
}

// Error implements the error interface for KeyError.
func (e *KeyError) Error() string {
	msg := fmt.Sprintf("configuration key %q: %s", e.Name, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Unwrap returns the underlying converter error, if any.
func (e *KeyError) Unwrap() error { return e.Err }

// DuplicateKeyError is returned when a configuration already holds a key with
// the same name. Keys are equal by name regardless of their value type.
type DuplicateKeyError struct {
	Name string
}

// Error implements the error interface for DuplicateKeyError.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate configuration key %q", e.Name)
}

// Suggest returns the candidate closest to name, or "" when nothing is close
// enough to be a plausible typo.
func Suggest(name string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best, bestDist := "", -1
	for _, c := range sorted {
		d := levenshtein.Distance(name, c, nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > len(name)/2+1 {
		return ""
	}
	return best
}
