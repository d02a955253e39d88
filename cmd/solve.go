package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crest-go/crest/cmd/exitcodes"
	"github.com/crest-go/crest/logging"
	"github.com/crest-go/crest/logging/colors"
	"github.com/crest-go/crest/solver"
	"github.com/crest-go/crest/solver/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// solveCmd represents the command provider for solve
var solveCmd = &cobra.Command{
	Use:               "solve <query.json>",
	Short:             "Solves a path condition query",
	Long:              `Solves the path condition of a JSON query and prints the satisfying assignment, if any`,
	Args:              cmdValidateSolveArgs,
	ValidArgsFunction: cmdValidSolveArgs,
	RunE:              cmdRunSolve,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add flags to solve command
	err := addSolveFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the solve command", err)
	}

	// Add the solve command and its associated flags to the root command
	rootCmd.AddCommand(solveCmd)
}

// cmdValidSolveArgs will return which flags are valid for dynamic completion for the solve command. Query files are
// completed once no query has been given.
func cmdValidSolveArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return unusedFlags(cmd), cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateSolveArgs makes sure that exactly one positional argument, the query path, is provided
func cmdValidateSolveArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		err = fmt.Errorf("solve requires exactly one positional argument, the path to the query file")
		cmdLogger.Error("Failed to validate args to the solve command", err)
		return err
	}
	return nil
}

// cmdRunSolve executes the CLI solve command and navigates through the following possibilities:
// #1: We will search for either a custom config file (via --config) or the default (crest.json).
// If we find it, read it. If we can't read it, throw an error.
// #2: If a custom file was provided (--config was used), and we can't find the file, throw an error.
// #3: If crest.json can't be found, use the default solver configuration.
func cmdRunSolve(cmd *cobra.Command, args []string) error {
	solverConfig, err := loadSolverConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}

	// Update the solver configuration given whatever flags were set using the CLI
	err = updateSolverConfigWithFlags(cmd, solverConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}
	err = solverConfig.Validate()
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}

	err = setupGlobalLogging(solverConfig.Logging)
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}

	s, err := solver.NewSolver(solverConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}

	query, err := solver.ReadQueryFromFile(args[0])
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}
	err = query.Validate()
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}

	result, err := query.Solve(s, solverConfig.Incremental)
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		if solver.IsFatal(err) {
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeFatalSolverError)
		}
		return err
	}
	cmdLogger.Debug("Solver statistics", logging.StructuredLogInfo{"stats": s.Stats()})

	err = writeResult(cmd, result)
	if err != nil {
		cmdLogger.Error("Failed to run the solve command", err)
		return err
	}

	if !result.Satisfiable {
		return exitcodes.NewErrorWithExitCode(nil, exitcodes.ExitCodeUnsatisfiable)
	}
	return nil
}

// loadSolverConfig reads the solver configuration named by --config, or crest.json in the working directory, falling
// back to the default configuration if neither was given nor found.
func loadSolverConfig(cmd *cobra.Command) (*config.SolverConfig, error) {
	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If --config was not used, look for `crest.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(workingDirectory, DefaultSolverConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		return config.ReadSolverConfigFromFile(configPath)
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed {
		return nil, errors.WithStack(existenceError)
	}

	// Possibility #3: --config flag was not used and crest.json was not found, so use the default solver config
	cmdLogger.Debug(fmt.Sprintf("Unable to find the config file at %v, will use the default solver configuration instead", configPath))
	return config.GetDefaultSolverConfig(), nil
}

// writeResult prints the JSON-serialized result to stdout, or writes it to the path given by --out.
func writeResult(cmd *cobra.Command, result *solver.Result) error {
	b, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	if !cmd.Flags().Changed("out") {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	}

	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	err = os.WriteFile(outputPath, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	cmdLogger.Info("Result successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}
