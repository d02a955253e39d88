package solver

import "time"

// Stats describes counters accumulated by a Solver across calls.
type Stats struct {
	// Solves is the number of queries sent to the backend, including those issued for incremental solves.
	Solves uint64 `json:"solves"`

	// Satisfiable is the number of queries that produced a solution.
	Satisfiable uint64 `json:"satisfiable"`

	// Unsatisfiable is the number of queries that produced no solution, including models rejected by concretization.
	Unsatisfiable uint64 `json:"unsatisfiable"`

	// Failed is the number of queries that ended in an error.
	Failed uint64 `json:"failed"`

	// IncrementalSolves is the number of IncrementalSolve calls that reached the backend.
	IncrementalSolves uint64 `json:"incrementalSolves"`

	// VariablesEncoded is the total number of variables declared across all queries.
	VariablesEncoded uint64 `json:"variablesEncoded"`

	// ConstraintsEncoded is the total number of predicates asserted across all queries.
	ConstraintsEncoded uint64 `json:"constraintsEncoded"`

	// ConstraintsSliced is the total number of predicates that dependency slicing kept out of incremental queries.
	ConstraintsSliced uint64 `json:"constraintsSliced"`

	// SolveTime is the total time spent in queries.
	SolveTime time.Duration `json:"solveTime"`
}

// Stats returns a snapshot of the counters accumulated by the solver.
func (s *Solver) Stats() Stats {
	s.statsLock.Lock()
	defer s.statsLock.Unlock()
	return s.stats
}

// recordSolve accumulates the outcome of one query.
func (s *Solver) recordSolve(variables int, constraints int, ok bool, err error, elapsed time.Duration) {
	s.statsLock.Lock()
	defer s.statsLock.Unlock()

	s.stats.Solves++
	s.stats.VariablesEncoded += uint64(variables)
	s.stats.ConstraintsEncoded += uint64(constraints)
	s.stats.SolveTime += elapsed
	switch {
	case err != nil:
		s.stats.Failed++
	case ok:
		s.stats.Satisfiable++
	default:
		s.stats.Unsatisfiable++
	}
}

// recordSlice accumulates the reduction achieved by one dependency slice.
func (s *Solver) recordSlice(total int, kept int) {
	s.statsLock.Lock()
	defer s.statsLock.Unlock()

	s.stats.IncrementalSolves++
	s.stats.ConstraintsSliced += uint64(total - kept)
}
