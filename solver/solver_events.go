package solver

import (
	"time"

	"github.com/crest-go/crest/events"
	"github.com/google/uuid"
)

// SolverEvents defines event emitters for a Solver.
type SolverEvents struct {
	// SolveStarted emits events when a query is about to be sent to the backend.
	SolveStarted events.EventEmitter[SolveStartedEvent]

	// SolveFinished emits events when a query has been answered or has failed.
	SolveFinished events.EventEmitter[SolveFinishedEvent]
}

// SolveStartedEvent describes an event where a Solver opens a backend session for a query.
type SolveStartedEvent struct {
	// Solver represents the instance of the Solver for which the event occurred.
	Solver *Solver

	// SessionID identifies the query across its started and finished events and its log entries.
	SessionID uuid.UUID

	// Incremental indicates whether the query is the dependency slice of an incremental solve.
	Incremental bool

	// Variables is the number of variables the query declares.
	Variables int

	// Constraints is the number of predicates the query asserts.
	Constraints int
}

// SolveFinishedEvent describes an event where a Solver finished a query.
type SolveFinishedEvent struct {
	// Solver represents the instance of the Solver for which the event occurred.
	Solver *Solver

	// SessionID identifies the query across its started and finished events and its log entries.
	SessionID uuid.UUID

	// Satisfiable indicates whether a solution was found.
	Satisfiable bool

	// Err is the error the query failed with, if any.
	Err error

	// Elapsed is the time spent in the query.
	Elapsed time.Duration
}
