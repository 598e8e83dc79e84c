// Package value implements typed, lazily evaluated configuration values.
//
// A Value is an explicit expression tree made of three node kinds: constants,
// key lookups and applications. Because a value never branches on the result
// of another value, the set of keys it reads can be computed by walking the
// tree (see Deps) without evaluating anything.
//
// Values are evaluated against a Configuration, an immutable mapping from key
// names to bound values. Keys that are present but unbound evaluate their
// default, which is itself a Value and may depend on other keys.
package value
