package solver

import (
	"fmt"

	"github.com/pkg/errors"
)

// FatalErrorKind describes the class of an unrecoverable solver failure.
type FatalErrorKind int

const (
	// MalformedPredicate indicates a predicate that cannot be encoded: an unknown comparison operator or a variable
	// that was never declared.
	MalformedPredicate FatalErrorKind = iota

	// SessionConstruction indicates that the decision procedure failed to open a session, build a term, or produce a
	// model.
	SessionConstruction
)

// String returns a readable name for the kind.
func (k FatalErrorKind) String() string {
	switch k {
	case MalformedPredicate:
		return "malformed predicate"
	case SessionConstruction:
		return "session construction failure"
	}
	return fmt.Sprintf("FatalErrorKind(%d)", int(k))
}

// FatalError is returned when a query could not be encoded or solved at all. It indicates a broken invariant upstream
// or a misconfigured decision procedure, and is never used to signal an unsatisfiable query.
type FatalError struct {
	// Kind describes the class of failure.
	Kind FatalErrorKind

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal solver error (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying cause for use with errors.Cause.
func (e *FatalError) Cause() error {
	return e.Err
}

// newFatalError wraps err in a FatalError of the given kind.
func newFatalError(kind FatalErrorKind, err error) error {
	return &FatalError{Kind: kind, Err: err}
}

// malformedf creates a MalformedPredicate error from a format string.
func malformedf(format string, args ...any) error {
	return newFatalError(MalformedPredicate, errors.Errorf(format, args...))
}

// IsFatal indicates whether err, or any error it wraps, is a FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// FatalKind returns the kind of the FatalError wrapped by err, and false if err is not fatal.
func FatalKind(err error) (FatalErrorKind, bool) {
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		return 0, false
	}
	return fatal.Kind, true
}
