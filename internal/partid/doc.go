/*
Package partid provides a structured representation for part addresses.

The canonical format is `kind.name`, e.g. `lib.core` or `unit.parser`,
which is how descriptions reference parts in `deps` lists and how the
command line selects them. Names may contain letters, digits,
underscores and hyphens.

This package centralizes the parsing and formatting of addresses so the
loader, the builder and the CLI agree on them.
*/
package partid
