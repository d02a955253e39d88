// Package z3 provides the "z3" solver backend on top of the Z3 theorem prover. The backend is only functional when
// built with the z3 build tag and a Z3 installation; otherwise a placeholder backend is registered whose sessions
// fail to open.
//
// Every term is built over the real sort, so only QF_LRA sessions can be opened.
package z3

// Name is the name the backend is registered under.
const Name = "z3"
