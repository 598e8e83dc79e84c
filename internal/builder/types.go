package builder

import (
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/partgrid/internal/config"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/partid"
)

// DeclError reports an invalid declaration.
type DeclError struct {
	// Decl names the declaration, e.g. "lib.core" or "atom.profile".
	Decl  string
	Range hcl.Range
	Err   error
}

// Error implements the error interface for DeclError.
func (e *DeclError) Error() string {
	if e.Range.Filename == "" {
		return fmt.Sprintf("%s: %v", e.Decl, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Range, e.Decl, e.Err)
}

func (e *DeclError) Unwrap() error { return e.Err }

func declErr(decl string, rng hcl.Range, format string, a ...any) *DeclError {
	return &DeclError{Decl: decl, Range: rng, Err: fmt.Errorf(format, a...)}
}

// Options tunes Build.
type Options struct {
	// FS is the project root used to expand `sources` globs. Defaults to
	// os.DirFS(model.Root).
	FS fs.FS
}

// decl is one node of the declaration graph: a declared part, or a unit
// discovered by a sources glob.
type decl struct {
	addr partid.Address
	cfg  *config.Part
	// discovered is set for units found by a glob.
	discovered *part.UnitSpec
	rng        hcl.Range
}
