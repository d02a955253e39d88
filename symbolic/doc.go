// Package symbolic defines the typed-value model of the concolic solver: the closed set of native variable types with
// their widths, bounds and cast semantics, the numeric carrier used for all constants, and the linear predicates that
// make up a path condition.
package symbolic
