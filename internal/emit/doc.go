// Package emit renders an evaluated plan for a backend.
//
// Makefile writes a GNU make file. For a resolved plan every rule is
// unconditional and commands are flattened against the plan's truth
// table. For a static plan each atom becomes a make variable defaulting
// to its value in the table, every rule is wrapped in one ifneq per
// clause of the CNF of its condition, and conditional arguments expand
// through $(if ...), so the file can be retargeted with NATIVE=false and
// friends on the make command line.
//
// YAML dumps the plan for inspection and tooling.
package emit
