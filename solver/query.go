package solver

import (
	"encoding/json"
	"os"

	"github.com/crest-go/crest/symbolic"
	"github.com/crest-go/crest/utils"
	"github.com/pkg/errors"
)

// Query is a JSON-serializable solver input: a variable environment, a path condition whose newest predicate is
// last, and optionally the solution of the path condition without its newest predicate.
type Query struct {
	// Vars maps each variable to its declared type.
	Vars symbolic.VarEnv `json:"vars"`

	// Constraints is the path condition.
	Constraints []*symbolic.Predicate `json:"constraints"`

	// Previous is the solution of the previous path condition, used by incremental solving.
	Previous symbolic.Solution `json:"previous,omitempty"`
}

// Result is the JSON-serializable outcome of a Query.
type Result struct {
	// Satisfiable indicates whether a solution was found.
	Satisfiable bool `json:"satisfiable"`

	// Incremental indicates whether only the dependency slice of the newest predicate was solved.
	Incremental bool `json:"incremental"`

	// Solution is the satisfying assignment, absent if the query is unsatisfiable.
	Solution symbolic.Solution `json:"solution,omitempty"`
}

// ReadQueryFromFile reads a JSON-serialized Query from a provided file path.
// Returns the Query if it succeeds, or an error if one occurs.
func ReadQueryFromFile(path string) (*Query, error) {
	b, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}

	query := &Query{}
	err = json.Unmarshal(b, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse query %s", path)
	}
	return query, nil
}

// WriteToFile writes the Query to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (q *Query) WriteToFile(path string) error {
	b, err := json.MarshalIndent(q, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Validate checks that every variable has a known type and every predicate has a known operator and mentions only
// declared variables.
// Returns an error if one occurs.
func (q *Query) Validate() error {
	for _, x := range q.Vars.Vars() {
		if !q.Vars[x].Valid() {
			return errors.Errorf("variable %s has unknown type %d", x, int(q.Vars[x]))
		}
	}

	for i, p := range q.Constraints {
		if p == nil {
			return errors.Errorf("constraint %d is empty", i)
		}
		if !p.Op.Valid() {
			return errors.Errorf("constraint %d has unknown comparison operator %d", i, int(p.Op))
		}
		if !p.DependsOn(q.Vars) {
			return errors.Errorf("constraint %d (%s) references an undeclared variable", i, p.String())
		}
	}
	return nil
}

// Solve decides the query with s. When incremental is set and the query carries a previous solution, only the
// dependency slice of the newest predicate is solved.
func (q *Query) Solve(s *Solver, incremental bool) (*Result, error) {
	useIncremental := incremental && q.Previous != nil && len(q.Constraints) > 0

	var (
		soln symbolic.Solution
		ok   bool
		err  error
	)
	if useIncremental {
		soln, ok, err = s.IncrementalSolve(q.Previous, q.Vars, q.Constraints)
	} else {
		soln, ok, err = s.Solve(q.Vars, q.Constraints)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Satisfiable: ok, Incremental: useIncremental, Solution: soln}, nil
}
