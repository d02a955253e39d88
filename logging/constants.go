package logging

// These constants name the "module" context value attached by each package's sub-logger
const (
	// SOLVER_MODULE identifies logs emitted by the constraint solver
	SOLVER_MODULE = "solver"

	// BACKEND_MODULE identifies logs emitted by a solver backend
	BACKEND_MODULE = "backend"

	// CLI_MODULE identifies logs emitted by the command line interface
	CLI_MODULE = "cli"
)
