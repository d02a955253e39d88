package cmd

import (
	"github.com/crest-go/crest/logging"
	"github.com/crest-go/crest/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used by the commands. It logs to the console until a command sets up logging from its
// configuration.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true).NewSubLogger("module", logging.CLI_MODULE)

var rootCmd = &cobra.Command{
	Use:     "crest",
	Short:   "A constraint solver for concolic test generation",
	Long:    "crest decides path conditions of linear predicates over typed program inputs and produces concrete inputs",
	Version: version.GetInfo().Short(),
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
