// Package solver translates a typed variable environment and a sequence of linear predicates into a query for a
// linear arithmetic decision procedure and reads satisfying assignments back. Decision procedures are provided by
// backends which register themselves with RegisterBackend, typically from an init function of a package that is
// blank-imported by the program.
package solver
