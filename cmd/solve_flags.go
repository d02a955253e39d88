package cmd

import (
	"fmt"
)

// addSolveFlags adds the various flags for the solve command
func addSolveFlags() error {
	// Prevent alphabetical sorting of usage message
	solveCmd.Flags().SortFlags = false

	// Config file
	solveCmd.Flags().String("config", "", fmt.Sprintf("path to config file (default %q in the working directory)", DefaultSolverConfigFilename))

	// Output path for the result
	solveCmd.Flags().String("out", "", "output path for the JSON result (default is stdout)")

	addSolverConfigFlags(solveCmd)
	return nil
}
