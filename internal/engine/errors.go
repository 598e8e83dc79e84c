package engine

import (
	"fmt"
	"strings"
)

// PartError ties a derivation failure to a part.
type PartError struct {
	Part string
	Err  error
}

// Error implements the error interface for PartError.
func (e *PartError) Error() string {
	return fmt.Sprintf("part %s: %v", e.Part, e.Err)
}

func (e *PartError) Unwrap() error { return e.Err }

// RuleError reports a malformed rule.
type RuleError struct {
	Part string
	Rule string
	Msg  string
}

// Error implements the error interface for RuleError.
func (e *RuleError) Error() string {
	return fmt.Sprintf("part %s: rule %s: %s", e.Part, e.Rule, e.Msg)
}

// DuplicateOutputError reports two present rules writing the same product.
type DuplicateOutputError struct {
	Output string
	Parts  []string
}

// Error implements the error interface for DuplicateOutputError.
func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("output %s is produced more than once (by %s)", e.Output, strings.Join(e.Parts, ", "))
}
