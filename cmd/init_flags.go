package cmd

import (
	"github.com/crest-go/crest/solver/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() error {
	// Prevent alphabetical sorting of usage message
	initCmd.Flags().SortFlags = false

	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new solver configuration file")

	// Overwrite without prompting
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file without prompting")

	addSolverConfigFlags(initCmd)
	return nil
}

// updateSolverConfigWithInitFlags will update the given solverConfig with any CLI arguments that were provided to the
// init command
func updateSolverConfigWithInitFlags(cmd *cobra.Command, solverConfig *config.SolverConfig) error {
	return updateSolverConfigWithFlags(cmd, solverConfig)
}
