// Package registry provides the central "glue" between assembled projects
// and the package lookup mechanisms their packages resolve through.
//
// The Registry is an explicit object owned by the driver: projects are
// registered after the description is built, and lookup mechanisms
// ("ocamlfind", "pkg-config", ...) are plugged in by Modules during
// application startup. Validate checks that every package kind used by a
// registered project has a mechanism, so missing lookups are reported
// before any derivation starts.
package registry
