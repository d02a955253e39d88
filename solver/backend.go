package solver

import (
	"math/big"
	"sync"

	"github.com/crest-go/crest/solver/config"
	"github.com/crest-go/crest/symbolic"
	"github.com/crest-go/crest/utils"
	"github.com/pkg/errors"
)

// Term is an opaque handle to an arithmetic term or boolean atom created by a Session. A Term is only meaningful to
// the Session that created it.
type Term any

// Backend is a linear arithmetic decision procedure that queries are sent to.
type Backend interface {
	// Name returns the name the backend is registered under.
	Name() string

	// Open starts a session for a single query in the given theory. The caller must Close the session on every path.
	Open(theory config.Theory) (Session, error)
}

// Session builds the terms of one query and checks their conjunction. A Session is not safe for concurrent use.
type Session interface {
	// Numeral creates a constant from exact decimal text, possibly with a fraction and an exponent.
	Numeral(text string) (Term, error)

	// Int64 creates an integer constant.
	Int64(v int64) (Term, error)

	// Variable declares a fresh real variable, or an integer variable if integral is set.
	Variable(name string, integral bool) (Term, error)

	// Mul creates the product of a constant and a term.
	Mul(coeff Term, x Term) (Term, error)

	// Sum creates the sum of one or more terms.
	Sum(terms []Term) (Term, error)

	// GeqAtom creates the atom "x >= bound".
	GeqAtom(x Term, bound Term) (Term, error)

	// LeqAtom creates the atom "x <= bound".
	LeqAtom(x Term, bound Term) (Term, error)

	// ZeroAtom creates the atom "t op 0".
	ZeroAtom(op symbolic.CompareOp, t Term) (Term, error)

	// Check decides the conjunction of atoms. The returned Model is only valid while the session is open.
	Check(atoms []Term) (Model, bool, error)

	// Close releases the session and any decision procedure state it holds.
	Close() error
}

// Model is a satisfying assignment produced by Session.Check.
type Model interface {
	// Value returns the exact rational value assigned to a variable term.
	Value(x Term) (*big.Rat, error)
}

// backends holds every registered Backend by name.
var backends = make(map[string]Backend)

// backendsLock guards backends.
var backendsLock sync.RWMutex

// RegisterBackend makes a backend available by its name. It panics if a backend with the same name is already
// registered.
func RegisterBackend(backend Backend) {
	backendsLock.Lock()
	defer backendsLock.Unlock()

	name := backend.Name()
	if _, exists := backends[name]; exists {
		panic("solver: backend " + name + " registered twice")
	}
	backends[name] = backend
}

// LookupBackend returns the backend registered under name.
func LookupBackend(name string) (Backend, error) {
	backendsLock.RLock()
	defer backendsLock.RUnlock()

	backend, ok := backends[name]
	if !ok {
		return nil, errors.Errorf("unknown solver backend %q (registered: %v)", name, registeredNames())
	}
	return backend, nil
}

// Backends returns the names of all registered backends in sorted order.
func Backends() []string {
	backendsLock.RLock()
	defer backendsLock.RUnlock()
	return registeredNames()
}

// registeredNames returns the sorted backend names. The caller must hold backendsLock.
func registeredNames() []string {
	return utils.SortedKeys(backends)
}
