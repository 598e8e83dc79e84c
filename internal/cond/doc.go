// Package cond is the boolean condition algebra used to decide whether parts,
// products and arguments exist in a given build environment.
//
// Conditions are immutable trees over named atoms. They evaluate against a
// partial truth Table (atoms missing from the table use their default) and
// convert to conjunctive normal form for backends that can only emit static
// guards.
package cond
