// Package config defines the format-agnostic description model: the
// project header, atoms, keys, settings and part declarations read from
// description files, along with the Loader interface that produces it.
//
// The model keeps attribute expressions unevaluated. Conditions and
// values may reference atoms and keys declared in any file, so they are
// translated by the builder once every declaration is known. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
