// Package hcl_adapter loads HCL description files into the
// format-agnostic config.Model.
//
// A description is one or more .hcl files. Directories are searched
// recursively; all files share one namespace, so a part may depend on a
// part declared in another file. Exactly one project block is required.
package hcl_adapter
