package config

import "github.com/rs/zerolog"

// DefaultBackend is the backend used when none is configured.
const DefaultBackend = "yices"

// GetDefaultSolverConfig obtains a default configuration for the solver: a continuous relaxation solved by yices,
// with incremental solving enabled and console logging at info level.
func GetDefaultSolverConfig() *SolverConfig {
	return &SolverConfig{
		Backend:     DefaultBackend,
		Theory:      QF_LRA,
		Concretize:  false,
		Incremental: true,
		Logging: LoggingConfig{
			Level:                zerolog.InfoLevel,
			EnableConsoleLogging: true,
			LogDirectory:         "",
		},
	}
}
