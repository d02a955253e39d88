package cmd

import (
	"bytes"
	"encoding/json"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/crest-go/crest/cmd/exitcodes"
	"github.com/crest-go/crest/solver"
	"github.com/crest-go/crest/solver/config"
	"github.com/crest-go/crest/symbolic"
	"github.com/crest-go/crest/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkOutcome is the result a scriptedBackend reports for every query.
type checkOutcome int

const (
	outcomeSatisfiable checkOutcome = iota
	outcomeUnsatisfiable
	outcomeFailure
)

// scriptedBackend decides every query with a fixed outcome and records the number of atoms of each query. Every
// variable of a satisfiable query is assigned zero.
type scriptedBackend struct {
	name         string
	outcome      checkOutcome
	checkedAtoms []int
}

var (
	satisfiableBackend   = &scriptedBackend{name: "cli-satisfiable", outcome: outcomeSatisfiable}
	unsatisfiableBackend = &scriptedBackend{name: "cli-unsatisfiable", outcome: outcomeUnsatisfiable}
	failingBackend       = &scriptedBackend{name: "cli-failing", outcome: outcomeFailure}
)

func init() {
	solver.RegisterBackend(satisfiableBackend)
	solver.RegisterBackend(unsatisfiableBackend)
	solver.RegisterBackend(failingBackend)
}

func (b *scriptedBackend) Name() string {
	return b.name
}

func (b *scriptedBackend) Open(theory config.Theory) (solver.Session, error) {
	return &scriptedSession{backend: b}, nil
}

// scriptedSession builds placeholder terms.
type scriptedSession struct {
	backend *scriptedBackend
}

func (s *scriptedSession) Numeral(text string) (solver.Term, error) {
	return text, nil
}

func (s *scriptedSession) Int64(v int64) (solver.Term, error) {
	return v, nil
}

func (s *scriptedSession) Variable(name string, integral bool) (solver.Term, error) {
	return name, nil
}

func (s *scriptedSession) Mul(coeff solver.Term, x solver.Term) (solver.Term, error) {
	return x, nil
}

func (s *scriptedSession) Sum(terms []solver.Term) (solver.Term, error) {
	return terms, nil
}

func (s *scriptedSession) GeqAtom(x solver.Term, bound solver.Term) (solver.Term, error) {
	return x, nil
}

func (s *scriptedSession) LeqAtom(x solver.Term, bound solver.Term) (solver.Term, error) {
	return x, nil
}

func (s *scriptedSession) ZeroAtom(op symbolic.CompareOp, t solver.Term) (solver.Term, error) {
	return t, nil
}

func (s *scriptedSession) Check(atoms []solver.Term) (solver.Model, bool, error) {
	s.backend.checkedAtoms = append(s.backend.checkedAtoms, len(atoms))
	switch s.backend.outcome {
	case outcomeSatisfiable:
		return zeroModel{}, true, nil
	case outcomeUnsatisfiable:
		return nil, false, nil
	}
	return nil, false, errors.New("scripted failure")
}

func (s *scriptedSession) Close() error {
	return nil
}

// zeroModel assigns zero to every variable.
type zeroModel struct{}

func (zeroModel) Value(x solver.Term) (*big.Rat, error) {
	return new(big.Rat), nil
}

// resetFlags restores every flag of cmd to its default, so that global commands can be executed repeatedly.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
}

// executeSolve runs "crest solve" with the provided arguments and returns its output, exit code and error.
func executeSolve(t *testing.T, args ...string) (string, int, error) {
	t.Helper()
	defer resetFlags(solveCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs(append([]string{"solve", "--log-level", "disabled"}, args...))

	err, exitCode := exitcodes.GetInnerErrorAndExitCode(rootCmd.Execute())
	return out.String(), exitCode, err
}

// writeTestQuery writes a query whose newest predicate "y > 100" shares no variable with the older "x > 0".
func writeTestQuery(t *testing.T, previous symbolic.Solution) string {
	t.Helper()
	query := &solver.Query{
		Vars: symbolic.VarEnv{0: symbolic.Int, 1: symbolic.Int},
		Constraints: []*symbolic.Predicate{
			symbolic.NewPredicate(symbolic.OpGT, symbolic.NewVarExpr(0)),
			symbolic.NewPredicate(symbolic.OpGT, symbolic.NewVarExpr(1).AddConst(symbolic.NewValue(-100))),
		},
		Previous: previous,
	}
	path := filepath.Join(t.TempDir(), "query.json")
	require.NoError(t, query.WriteToFile(path))
	return path
}

// TestSolveExitCodes tests that solve results map to their exit codes.
func TestSolveExitCodes(t *testing.T) {
	path := writeTestQuery(t, nil)

	out, exitCode, err := executeSolve(t, path, "--backend", satisfiableBackend.name)
	require.NoError(t, err)
	assert.Equal(t, exitcodes.ExitCodeSuccess, exitCode)
	var result solver.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Satisfiable)
	assert.Len(t, result.Solution, 2)

	// Unsatisfiable queries exit with their own code and no error
	out, exitCode, err = executeSolve(t, path, "--backend", unsatisfiableBackend.name)
	assert.NoError(t, err)
	assert.Equal(t, exitcodes.ExitCodeUnsatisfiable, exitCode)
	result = solver.Result{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Satisfiable)
	assert.Empty(t, result.Solution)

	// Backend failures are fatal
	_, exitCode, err = executeSolve(t, path, "--backend", failingBackend.name)
	assert.Equal(t, exitcodes.ExitCodeFatalSolverError, exitCode)
	assert.True(t, solver.IsFatal(err))

	// A missing query is a general error
	_, exitCode, err = executeSolve(t, filepath.Join(t.TempDir(), "missing.json"), "--backend", satisfiableBackend.name)
	assert.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeGeneralError, exitCode)
}

// TestSolveIncrementalChoice tests that only a query with a previous solution is solved incrementally, unless
// incremental solving is disabled.
func TestSolveIncrementalChoice(t *testing.T) {
	incrementalPath := writeTestQuery(t, symbolic.Solution{0: symbolic.NewValue(3), 1: symbolic.NewValue(7)})
	fullPath := writeTestQuery(t, nil)

	testCases := []struct {
		name        string
		args        []string
		incremental bool
		atoms       int
	}{
		// Bounds of y and "y > 100"
		{name: "previous solution", args: []string{incrementalPath}, incremental: true, atoms: 3},
		// Bounds of x and y and both predicates
		{name: "no previous solution", args: []string{fullPath}, incremental: false, atoms: 6},
		{name: "incremental disabled", args: []string{incrementalPath, "--no-incremental"}, incremental: false, atoms: 6},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			satisfiableBackend.checkedAtoms = nil
			out, exitCode, err := executeSolve(t, append(tc.args, "--backend", satisfiableBackend.name)...)
			require.NoError(t, err)
			assert.Equal(t, exitcodes.ExitCodeSuccess, exitCode)

			var result solver.Result
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, tc.incremental, result.Incremental)
			assert.Equal(t, []int{tc.atoms}, satisfiableBackend.checkedAtoms)
			if tc.incremental {
				// x is outside the slice and keeps its previous value
				assert.True(t, symbolic.NewValue(3).Equal(result.Solution[0]), "got %s", result.Solution[0])
			}
		})
	}
}

// TestSolveWritesResultFile tests that --out writes the result instead of printing it.
func TestSolveWritesResultFile(t *testing.T) {
	path := writeTestQuery(t, nil)
	outPath := filepath.Join(t.TempDir(), "result.json")

	out, exitCode, err := executeSolve(t, path, "--backend", satisfiableBackend.name, "--out", outPath)
	require.NoError(t, err)
	assert.Equal(t, exitcodes.ExitCodeSuccess, exitCode)
	assert.Empty(t, out)

	result := &solver.Result{}
	b, err := utils.ReadFile(outPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, result))
	assert.True(t, result.Satisfiable)
}
