package cmd

import (
	"fmt"
	"time"

	"github.com/crest-go/crest/logging"
	"github.com/crest-go/crest/solver/config"
	"github.com/crest-go/crest/utils"
)

// setupGlobalLogging replaces the global logger with one configured from the solver configuration: console output if
// enabled, and a structured log file in the log directory if one is set.
func setupGlobalLogging(loggingConfig config.LoggingConfig) error {
	logging.GlobalLogger = logging.NewLogger(loggingConfig.Level, loggingConfig.EnableConsoleLogging)

	if loggingConfig.LogDirectory != "" {
		filename := fmt.Sprintf("crest-%d.log", time.Now().Unix())
		file, err := utils.CreateFile(loggingConfig.LogDirectory, filename)
		if err != nil {
			return err
		}
		logging.GlobalLogger.AddWriter(file, logging.STRUCTURED)
	}

	cmdLogger = logging.GlobalLogger.NewSubLogger("module", logging.CLI_MODULE)
	return nil
}
