package cmd

import (
	"fmt"

	"github.com/crest-go/crest/solver/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// addSolverConfigFlags adds the flags overriding fields of a solver configuration to cmd
func addSolverConfigFlags(cmd *cobra.Command) {
	defaultConfig := config.GetDefaultSolverConfig()

	// Backend
	cmd.Flags().String("backend", "",
		fmt.Sprintf("solver backend to send queries to (unless a config file is provided, default is %q)", defaultConfig.Backend))

	// Theory
	cmd.Flags().String("theory", "",
		fmt.Sprintf("logic variables are declared in, %q or %q (unless a config file is provided, default is %q)", config.QF_LRA, config.QF_LIRA, defaultConfig.Theory))

	// Concretization
	cmd.Flags().Bool("concretize", false,
		fmt.Sprintf("round integer-typed variables and re-check every predicate (unless a config file is provided, default is %t)", defaultConfig.Concretize))

	// Incremental solving
	cmd.Flags().Bool("no-incremental", false,
		fmt.Sprintf("solve the full path condition even if a previous solution is given (unless a config file is provided, default is %t)", !defaultConfig.Incremental))

	// Log level
	cmd.Flags().String("log-level", "",
		fmt.Sprintf("minimum level of emitted logs (unless a config file is provided, default is %q)", defaultConfig.Logging.Level.String()))

	// Log directory
	cmd.Flags().String("log-dir", "", "directory for structured log files")
}

// updateSolverConfigWithFlags will update the given solverConfig with any of the solver configuration flags that were
// set on cmd
func updateSolverConfigWithFlags(cmd *cobra.Command, solverConfig *config.SolverConfig) error {
	var err error

	// If --backend was used
	if cmd.Flags().Changed("backend") {
		solverConfig.Backend, err = cmd.Flags().GetString("backend")
		if err != nil {
			return err
		}
	}

	// If --theory was used
	if cmd.Flags().Changed("theory") {
		theory, err := cmd.Flags().GetString("theory")
		if err != nil {
			return err
		}
		solverConfig.Theory = config.Theory(theory)
	}

	// If --concretize was used
	if cmd.Flags().Changed("concretize") {
		solverConfig.Concretize, err = cmd.Flags().GetBool("concretize")
		if err != nil {
			return err
		}
	}

	// If --no-incremental was used
	if cmd.Flags().Changed("no-incremental") {
		noIncremental, err := cmd.Flags().GetBool("no-incremental")
		if err != nil {
			return err
		}
		solverConfig.Incremental = !noIncremental
	}

	// If --log-level was used
	if cmd.Flags().Changed("log-level") {
		levelText, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		solverConfig.Logging.Level, err = zerolog.ParseLevel(levelText)
		if err != nil {
			return err
		}
	}

	// If --log-dir was used
	if cmd.Flags().Changed("log-dir") {
		solverConfig.Logging.LogDirectory, err = cmd.Flags().GetString("log-dir")
		if err != nil {
			return err
		}
	}
	return nil
}
