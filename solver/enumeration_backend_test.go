package solver

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/crest-go/crest/solver/config"
	"github.com/crest-go/crest/symbolic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// enumerationBackend is a small exact decision procedure for tests. Each variable is searched over a finite set of
// candidates drawn from the roots of the atoms it appears in, so it decides the simple queries the tests build but
// is not complete in general.
type enumerationBackend struct {
	name string

	// failOpen, failVariable and failCheck inject backend failures.
	failOpen     bool
	failVariable bool
	failCheck    bool

	// opened and closed count session lifecycle calls.
	opened int
	closed int

	// theories records the theory of every opened session.
	theories []config.Theory

	// numerals records the text of every Numeral call.
	numerals []string

	// integral records the integrality of every declared variable by name, for the last session.
	integral map[string]bool

	// checkedAtoms is the number of atoms of the last Check call.
	checkedAtoms int
}

// backendCounter makes test backend names unique across the process-wide registry.
var backendCounter atomic.Int64

// newTestSolver registers a new enumeration backend and returns a solver using it. mutate may adjust the default
// configuration before the solver is created.
func newTestSolver(t *testing.T, backend *enumerationBackend, mutate func(*config.SolverConfig)) *Solver {
	t.Helper()
	backend.name = fmt.Sprintf("enumeration-%d", backendCounter.Add(1))
	RegisterBackend(backend)

	cfg := config.GetDefaultSolverConfig()
	cfg.Backend = backend.name
	if mutate != nil {
		mutate(cfg)
	}
	s, err := NewSolver(cfg)
	require.NoError(t, err)
	return s
}

func (b *enumerationBackend) Name() string {
	return b.name
}

func (b *enumerationBackend) Open(theory config.Theory) (Session, error) {
	if b.failOpen {
		return nil, errors.New("backend unavailable")
	}
	b.opened++
	b.theories = append(b.theories, theory)
	b.integral = make(map[string]bool)
	return &enumerationSession{backend: b}, nil
}

// linearTerm is "constant + sum(coeffs[i] * variable i)".
type linearTerm struct {
	constant *big.Rat
	coeffs   map[int]*big.Rat
}

func constTerm(r *big.Rat) linearTerm {
	return linearTerm{constant: r, coeffs: map[int]*big.Rat{}}
}

func (l linearTerm) add(other linearTerm, scale *big.Rat) linearTerm {
	result := linearTerm{constant: new(big.Rat).Set(l.constant), coeffs: map[int]*big.Rat{}}
	for i, c := range l.coeffs {
		result.coeffs[i] = new(big.Rat).Set(c)
	}
	result.constant.Add(result.constant, new(big.Rat).Mul(other.constant, scale))
	for i, c := range other.coeffs {
		scaled := new(big.Rat).Mul(c, scale)
		if existing, ok := result.coeffs[i]; ok {
			scaled.Add(scaled, existing)
		}
		if scaled.Sign() == 0 {
			delete(result.coeffs, i)
		} else {
			result.coeffs[i] = scaled
		}
	}
	return result
}

func (l linearTerm) eval(values []*big.Rat) *big.Rat {
	result := new(big.Rat).Set(l.constant)
	for i, c := range l.coeffs {
		result.Add(result, new(big.Rat).Mul(c, values[i]))
	}
	return result
}

// atomTerm is "expr op 0".
type atomTerm struct {
	op   symbolic.CompareOp
	expr linearTerm
}

type enumerationSession struct {
	backend  *enumerationBackend
	integral []bool
	closed   bool
}

func (s *enumerationSession) Numeral(text string) (Term, error) {
	s.backend.numerals = append(s.backend.numerals, text)
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, errors.Errorf("invalid numeral %q", text)
	}
	return constTerm(r), nil
}

func (s *enumerationSession) Int64(v int64) (Term, error) {
	return constTerm(new(big.Rat).SetInt64(v)), nil
}

func (s *enumerationSession) Variable(name string, integral bool) (Term, error) {
	if s.backend.failVariable {
		return nil, errors.New("cannot declare variable")
	}
	s.backend.integral[name] = integral
	index := len(s.integral)
	s.integral = append(s.integral, integral)
	return linearTerm{constant: new(big.Rat), coeffs: map[int]*big.Rat{index: big.NewRat(1, 1)}}, nil
}

func (s *enumerationSession) Mul(coeff Term, x Term) (Term, error) {
	c := coeff.(linearTerm)
	if len(c.coeffs) != 0 {
		return nil, errors.New("non-linear product")
	}
	return constTerm(new(big.Rat)).add(x.(linearTerm), c.constant), nil
}

func (s *enumerationSession) Sum(terms []Term) (Term, error) {
	result := constTerm(new(big.Rat))
	for _, t := range terms {
		result = result.add(t.(linearTerm), big.NewRat(1, 1))
	}
	return result, nil
}

func (s *enumerationSession) GeqAtom(x Term, bound Term) (Term, error) {
	return atomTerm{op: symbolic.OpGE, expr: x.(linearTerm).add(bound.(linearTerm), big.NewRat(-1, 1))}, nil
}

func (s *enumerationSession) LeqAtom(x Term, bound Term) (Term, error) {
	return atomTerm{op: symbolic.OpLE, expr: x.(linearTerm).add(bound.(linearTerm), big.NewRat(-1, 1))}, nil
}

func (s *enumerationSession) ZeroAtom(op symbolic.CompareOp, t Term) (Term, error) {
	return atomTerm{op: op, expr: t.(linearTerm)}, nil
}

func (s *enumerationSession) Check(terms []Term) (Model, bool, error) {
	s.backend.checkedAtoms = len(terms)
	if s.backend.failCheck {
		return nil, false, errors.New("decision procedure crashed")
	}

	// Bucket atoms by the highest variable they mention, which is the search depth where they are decided
	atoms := make([]atomTerm, len(terms))
	decidedAt := make([][]atomTerm, len(s.integral))
	for i, t := range terms {
		atoms[i] = t.(atomTerm)
		highest := -1
		for v := range atoms[i].expr.coeffs {
			if v > highest {
				highest = v
			}
		}
		if highest < 0 {
			if !atoms[i].op.Holds(atoms[i].expr.constant.Sign()) {
				return nil, false, nil
			}
			continue
		}
		decidedAt[highest] = append(decidedAt[highest], atoms[i])
	}

	values := make([]*big.Rat, len(s.integral))
	if !s.search(0, values, atoms, decidedAt) {
		return nil, false, nil
	}
	return enumerationModel(values), true, nil
}

// search assigns variable depth and every later variable, backtracking over candidates.
func (s *enumerationSession) search(depth int, values []*big.Rat, atoms []atomTerm, decidedAt [][]atomTerm) bool {
	if depth == len(values) {
		return true
	}
	for _, candidate := range s.candidates(depth, values, atoms) {
		if s.integral[depth] && !candidate.IsInt() {
			continue
		}
		values[depth] = candidate
		satisfied := true
		for _, atom := range decidedAt[depth] {
			if !atom.op.Holds(atom.expr.eval(values).Sign()) {
				satisfied = false
				break
			}
		}
		if satisfied && s.search(depth+1, values, atoms, decidedAt) {
			return true
		}
	}
	values[depth] = nil
	return false
}

// candidates returns, in ascending order, zero and one and the roots of every atom which mentions variable depth and
// otherwise only assigned variables, together with their neighbors at distance one and one half.
func (s *enumerationSession) candidates(depth int, values []*big.Rat, atoms []atomTerm) []*big.Rat {
	seen := make(map[string]*big.Rat)
	addAround := func(r *big.Rat) {
		for _, delta := range []*big.Rat{big.NewRat(0, 1), big.NewRat(1, 1), big.NewRat(-1, 1), big.NewRat(1, 2), big.NewRat(-1, 2)} {
			c := new(big.Rat).Add(r, delta)
			seen[c.RatString()] = c
		}
	}
	addAround(new(big.Rat))

	for _, atom := range atoms {
		coeff, ok := atom.expr.coeffs[depth]
		if !ok {
			continue
		}
		rest := new(big.Rat).Set(atom.expr.constant)
		decidable := true
		for v, c := range atom.expr.coeffs {
			if v == depth {
				continue
			}
			if v > depth {
				decidable = false
				break
			}
			rest.Add(rest, new(big.Rat).Mul(c, values[v]))
		}
		if decidable {
			root := new(big.Rat).Quo(rest, coeff)
			addAround(root.Neg(root))
		}
	}

	result := make([]*big.Rat, 0, len(seen))
	for _, c := range seen {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Cmp(result[j]) < 0
	})
	return result
}

func (s *enumerationSession) Close() error {
	if s.closed {
		return errors.New("session closed twice")
	}
	s.closed = true
	s.backend.closed++
	return nil
}

// enumerationModel holds the value of each variable by index.
type enumerationModel []*big.Rat

func (m enumerationModel) Value(x Term) (*big.Rat, error) {
	term := x.(linearTerm)
	for i := range term.coeffs {
		return new(big.Rat).Set(m[i]), nil
	}
	return nil, errors.New("not a variable")
}

// numeralsContaining returns the recorded numerals containing substr.
func (b *enumerationBackend) numeralsContaining(substr string) []string {
	var found []string
	for _, n := range b.numerals {
		if strings.Contains(n, substr) {
			found = append(found, n)
		}
	}
	return found
}
