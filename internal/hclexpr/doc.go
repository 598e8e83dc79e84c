// Package hclexpr translates HCL expressions found in description files
// into the engine's types: conditions over atom.<name> references,
// boolean values over key.<name> references, part references and plain
// literals. It also collects the references and function calls of a set
// of expressions so the builder can validate them before translating.
package hclexpr
