package env

import (
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/value"
)

// Base system keys.
var (
	KeyBuildDir = value.NewKey("build-dir", value.String, value.Const("_build"),
		value.Public(), value.Doc("Directory receiving every build product."), value.DocValue("DIR"))

	KeyByte = value.NewKey("byte", value.Bool, value.Const(true),
		value.Public(), value.Doc("Build bytecode artifacts."))

	KeyNative = value.NewKey("native", value.Bool, value.Const(true),
		value.Public(), value.Doc("Build native code artifacts."))

	KeyNativeDynlink = value.NewKey("native-dynlink", value.Bool, value.Lookup(KeyNative),
		value.Public(), value.Doc("Build natively dynlinkable archives."))

	KeyJs = value.NewKey("js", value.Bool, value.Const(false),
		value.Public(), value.Doc("Build JavaScript executables."))

	KeyAnnot = value.NewKey("annot", value.Bool, value.Const(false),
		value.Public(), value.Doc("Produce binary annotation files."))

	KeyDebug = value.NewKey("debug", value.Bool, value.Const(false),
		value.Public(), value.Doc("Compile with debugging information."))

	KeyWarnError = value.NewKey("warn-error", value.Bool, value.Const(false),
		value.Public(), value.Doc("Turn warnings into errors."))

	KeyTest = value.NewKey("test", value.Bool, value.Const(false),
		value.Public(), value.Doc("Build and run tests."))

	KeyDoc = value.NewKey("doc", value.Bool, value.Const(false),
		value.Public(), value.Doc("Build documentation."))
)

// Toolchain program keys.
var (
	KeyOcamlc    = program("ocamlc")
	KeyOcamlopt  = program("ocamlopt")
	KeyOcamldep  = program("ocamldep")
	KeyOcamlfind = program("ocamlfind")
	KeyOcamldoc  = program("ocamldoc")
	KeyJsOfOcaml = program("js_of_ocaml")
	KeyPkgConfig = program("pkg-config")
)

func program(name string) *value.Key[string] {
	return value.NewKey(name, value.String, value.Const(name),
		value.Public(), value.Doc("The "+name+" program."), value.DocValue("BIN"))
}

// Built-in atoms. Each one takes its truth value from the boolean key of
// the same name (hyphens instead of underscores) unless overridden.
var (
	AtomByte          = cond.NewAtom(true, "byte", "Bytecode artifacts are built.")
	AtomNative        = cond.NewAtom(true, "native", "Native code artifacts are built.")
	AtomNativeDynlink = cond.NewAtom(true, "native_dynlink", "Native dynlinkable archives are built.")
	AtomJs            = cond.NewAtom(false, "js", "JavaScript executables are built.")
	AtomAnnot         = cond.NewAtom(false, "annot", "Annotation files are produced.")
	AtomDebug         = cond.NewAtom(false, "debug", "Debugging information is produced.")
	AtomWarnError     = cond.NewAtom(false, "warn_error", "Warnings are errors.")
	AtomTest          = cond.NewAtom(false, "test", "Tests are built.")
	AtomDoc           = cond.NewAtom(false, "doc", "Documentation is built.")
)

// BaseConfig holds the base system keys, unbound.
func BaseConfig() *value.Configuration {
	return mustOf(KeyBuildDir, KeyByte, KeyNative, KeyNativeDynlink, KeyJs,
		KeyAnnot, KeyDebug, KeyWarnError, KeyTest, KeyDoc)
}

// ToolchainConfig holds the toolchain program keys, unbound.
func ToolchainConfig() *value.Configuration {
	return mustOf(KeyOcamlc, KeyOcamlopt, KeyOcamldep, KeyOcamlfind,
		KeyOcamldoc, KeyJsOfOcaml, KeyPkgConfig)
}

// Builtin merges the base and toolchain configurations.
func Builtin() *value.Configuration {
	return BaseConfig().Merge(ToolchainConfig())
}

// Atoms returns the built-in atoms in declaration order.
func Atoms() []*cond.Atom {
	return []*cond.Atom{AtomByte, AtomNative, AtomNativeDynlink, AtomJs,
		AtomAnnot, AtomDebug, AtomWarnError, AtomTest, AtomDoc}
}

// RegisterAtoms adds the built-in atoms to r.
func RegisterAtoms(r *cond.Registry) error {
	for _, a := range Atoms() {
		if err := r.Register(a); err != nil {
			return err
		}
	}
	return nil
}

// The built-in key sets have distinct names.
func mustOf(keys ...value.AnyKey) *value.Configuration {
	c, err := value.Of(keys...)
	if err != nil {
		panic(err)
	}
	return c
}
