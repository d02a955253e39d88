package cmd

import (
	"fmt"

	"github.com/crest-go/crest/solver"
	"github.com/crest-go/crest/solver/config"
	"github.com/spf13/cobra"

	// Register the solver backends
	_ "github.com/crest-go/crest/solver/yices"
	_ "github.com/crest-go/crest/solver/z3"
)

// backendsCmd represents the command provider for backends
var backendsCmd = &cobra.Command{
	Use:           "backends",
	Short:         "Lists the available solver backends",
	Long:          `Lists the names of the solver backends this build registered, which may be used with --backend`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunBackends,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

// cmdRunBackends prints every registered backend name, marking the default one.
func cmdRunBackends(cmd *cobra.Command, args []string) error {
	for _, name := range solver.Backends() {
		if name == config.DefaultBackend {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	}
	return nil
}
