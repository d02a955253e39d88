package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crest-go/crest/logging/colors"
	"github.com/crest-go/crest/solver/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:               "init",
	Short:             "Initializes a solver configuration",
	Long:              `Initializes a solver configuration`,
	Args:              cmdValidateInitArgs,
	ValidArgsFunction: cmdValidInitArgs,
	RunE:              cmdRunInit,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add flags to init command
	err := addInitFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the init command", err)
	}

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdValidInitArgs will return which flags are valid for dynamic completion for the init command
func cmdValidInitArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return unusedFlags(cmd), cobra.ShellCompDirectiveNoFileComp
}

// unusedFlags returns the flags of cmd that have not been set yet, prefixed with "--".
func unusedFlags(cmd *cobra.Command) []string {
	var unused []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unused = append(unused, "--"+flag.Name)
		}
	})
	return unused
}

// cmdValidateInitArgs makes sure that there are no positional arguments provided to the init command
func cmdValidateInitArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("init does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the init command", err)
		return err
	}
	return nil
}

// cmdRunInit executes the init CLI command and writes the default solver configuration, updated with any flags
func cmdRunInit(cmd *cobra.Command, args []string) error {
	// Check to see if --out flag was used and store the value of --out flag
	outputFlagUsed := cmd.Flags().Changed("out")
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	// If we weren't provided an output path (flag was not used), we use our working directory
	if !outputFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the init command", err)
			return err
		}
		outputPath = filepath.Join(workingDirectory, DefaultSolverConfigFilename)
	}

	solverConfig := config.GetDefaultSolverConfig()

	// Update the solver configuration given whatever flags were set using the CLI
	err = updateSolverConfigWithInitFlags(cmd, solverConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	err = solverConfig.Validate()
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	if _, err = os.Stat(outputPath); err == nil {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			cmdLogger.Error("Failed to run the init command", err)
			return err
		}
		if !force {
			// Prompt user for overwrite confirmation
			fmt.Print("The file already exists. Overwrite? (y/n): ")
			var response string
			if _, err := fmt.Scan(&response); err != nil {
				cmdLogger.Error("Failed to scan input", err)
				return err
			}

			if response != "y" && response != "Y" {
				fmt.Println("Operation canceled.")
				return nil
			}
		}
	}

	// Write our solver configuration
	err = solverConfig.WriteToFile(outputPath)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	// Print a success message
	if absoluteOutputPath, err := filepath.Abs(outputPath); err == nil {
		outputPath = absoluteOutputPath
	}
	cmdLogger.Info("Solver configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}
