// Package dag is a small, insertion-ordered directed graph keyed by string
// IDs. It detects dependency cycles and produces stable topological orders
// in which every node comes after the nodes it depends on.
//
// The part graph and the description builder both use it to enforce
// acyclicity.
package dag
