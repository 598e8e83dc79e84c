// Package args accumulates command-line fragments per build context and
// condition.
package args

import (
	"fmt"
	"strings"
)

// Phase is the pipeline stage an argument or action belongs to.
type Phase uint8

const (
	Prepare Phase = iota
	Dep
	Pp
	Compile
	Archive
	Link
	Run
	Test
	Doc
	Other
)

var phaseNames = [...]string{
	Prepare: "prepare",
	Dep:     "dep",
	Pp:      "pp",
	Compile: "compile",
	Archive: "archive",
	Link:    "link",
	Run:     "run",
	Test:    "test",
	Doc:     "doc",
	Other:   "other",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

// Mode refines a phase by output format.
type Mode uint8

const (
	None Mode = iota
	Byte
	Native
	Shared
	Js
)

var modeNames = [...]string{
	None:   "",
	Byte:   "byte",
	Native: "native",
	Shared: "shared",
	Js:     "js",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

// Context says when in the build an argument applies. Contexts are
// comparable and usable as map keys.
type Context struct {
	Phase Phase
	Mode  Mode
	// Tag names an open-ended custom context; only used with Other.
	Tag string
}

// Ctx builds a context for phase p in mode m.
func Ctx(p Phase, m Mode) Context { return Context{Phase: p, Mode: m} }

// Custom builds an open-ended context.
func Custom(tag string) Context { return Context{Phase: Other, Tag: tag} }

// Common contexts.
var (
	PrepareCtx    = Ctx(Prepare, None)
	DepCtx        = Ctx(Dep, None)
	PpCtx         = Ctx(Pp, None)
	CompileByte   = Ctx(Compile, Byte)
	CompileNative = Ctx(Compile, Native)
	ArchiveByte   = Ctx(Archive, Byte)
	ArchiveNative = Ctx(Archive, Native)
	ArchiveShared = Ctx(Archive, Shared)
	LinkByte      = Ctx(Link, Byte)
	LinkNative    = Ctx(Link, Native)
	LinkJs        = Ctx(Link, Js)
	RunCtx        = Ctx(Run, None)
	TestCtx       = Ctx(Test, None)
	DocCtx        = Ctx(Doc, None)
)

// String renders "compile-byte", "dep" or "other:gen".
func (c Context) String() string {
	if c.Phase == Other {
		if c.Tag == "" {
			return "other"
		}
		return "other:" + c.Tag
	}
	if c.Mode == None {
		return c.Phase.String()
	}
	return c.Phase.String() + "-" + c.Mode.String()
}

// ParseContext is the inverse of Context.String.
func ParseContext(s string) (Context, error) {
	if tag, ok := strings.CutPrefix(s, "other:"); ok {
		if tag == "" {
			return Context{}, fmt.Errorf("context %q: empty custom tag", s)
		}
		return Custom(tag), nil
	}

	phaseStr, modeStr, _ := strings.Cut(s, "-")
	phase, ok := lookupName(phaseNames[:], phaseStr)
	if !ok {
		return Context{}, fmt.Errorf("unknown context %q", s)
	}
	mode := 0
	if modeStr != "" {
		if mode, ok = lookupName(modeNames[:], modeStr); !ok {
			return Context{}, fmt.Errorf("context %q: unknown mode %q", s, modeStr)
		}
	}
	return Ctx(Phase(phase), Mode(mode)), nil
}

func lookupName(names []string, s string) (int, bool) {
	for i, n := range names {
		if n != "" && n == s {
			return i, true
		}
	}
	return 0, false
}
