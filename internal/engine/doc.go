// Package engine derives the rules and products of a project for one build
// environment.
//
// Evaluate walks the part closure in stable topological order. Each part's
// effective condition is its declared condition conjoined with the
// effective conditions of its dependencies; its effective arguments are
// the project arguments, then the arguments of the packages it depends on,
// then its own. Parts whose condition does not hold are absent: they
// contribute nothing and are not errors. Failures are tied to the part
// that caused them, the parts depending on it are skipped, and every
// failure is reported together.
package engine
