package config

import (
	"encoding/json"
	"os"

	"github.com/crest-go/crest/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Theory names the SMT-LIB logic a solver session is opened with.
type Theory string

const (
	// QF_LRA is quantifier-free linear real arithmetic. Every variable is relaxed to a real, including integer-typed
	// ones.
	QF_LRA Theory = "QF_LRA"

	// QF_LIRA is quantifier-free linear integer/real arithmetic. Integer-typed variables are declared as integers.
	QF_LIRA Theory = "QF_LIRA"
)

// Valid indicates whether the theory is one the solver can encode queries in.
func (t Theory) Valid() bool {
	return t == QF_LRA || t == QF_LIRA
}

// SolverConfig describes the configuration options used by the solver.Solver and the command line interface.
type SolverConfig struct {
	// Backend names the registered decision procedure queries are sent to.
	Backend string `json:"backend"`

	// Theory describes the logic variables are declared in.
	Theory Theory `json:"theory"`

	// Concretize describes whether integer-typed variables of a model are rounded to integers and every predicate
	// re-checked under the rounded assignment before a solution is returned.
	Concretize bool `json:"concretize"`

	// Incremental describes whether the command line interface solves only the dependency slice of the newest
	// predicate when a previous solution is available.
	Incremental bool `json:"incremental"`

	// Logging describes the configuration used for logging
	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// EnableConsoleLogging describes whether console logging is enabled
	EnableConsoleLogging bool `json:"enableConsoleLogging"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`
}

// ReadSolverConfigFromFile reads a JSON-serialized SolverConfig from a provided file path. Fields missing from the
// file keep their default values.
// Returns the SolverConfig if it succeeds, or an error if one occurs.
func ReadSolverConfigFromFile(path string) (*SolverConfig, error) {
	b, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}

	solverConfig := GetDefaultSolverConfig()
	err = json.Unmarshal(b, solverConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return solverConfig, nil
}

// WriteToFile writes the SolverConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (c *SolverConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the SolverConfig meets certain requirements. Whether the backend is registered is checked
// when the solver is created.
// Returns an error if one occurs.
func (c *SolverConfig) Validate() error {
	if c.Backend == "" {
		return errors.Errorf("a solver backend must be specified")
	}

	if !c.Theory.Valid() {
		return errors.Errorf("unsupported theory %q, expected %q or %q", c.Theory, QF_LRA, QF_LIRA)
	}

	if c.Logging.Level < zerolog.TraceLevel || c.Logging.Level > zerolog.Disabled {
		return errors.Errorf("invalid log level %d", c.Logging.Level)
	}
	return nil
}
