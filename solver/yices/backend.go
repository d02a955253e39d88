// Package yices provides the "yices" solver backend on top of the Yices 2 SMT solver. Importing the package registers
// the backend.
package yices

import (
	"math/big"
	"strings"
	"sync"

	"github.com/crest-go/crest/logging"
	"github.com/crest-go/crest/solver"
	"github.com/crest-go/crest/solver/config"
	"github.com/crest-go/crest/symbolic"
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
)

// Name is the name the backend is registered under.
const Name = "yices"

// globalLock serializes sessions. Yices keeps its term tables in process-wide state which every session
// initializes on open and releases on close.
var globalLock sync.Mutex

func init() {
	solver.RegisterBackend(&Backend{})
}

// Backend opens Yices sessions.
type Backend struct{}

// Name returns the name the backend is registered under.
func (b *Backend) Name() string {
	return Name
}

// Open initializes Yices and creates a context. The session holds the global lock until it is closed.
func (b *Backend) Open(theory config.Theory) (solver.Session, error) {
	if !theory.Valid() {
		return nil, errors.Errorf("yices: unsupported theory %q", theory)
	}

	globalLock.Lock()
	yices2.Init()

	s := &session{
		theory: theory,
		logger: logging.GlobalLogger.NewSubLogger("module", logging.BACKEND_MODULE).NewSubLogger("backend", Name),
	}
	if err := openContext(&s.ctx); err != nil {
		yices2.Exit()
		globalLock.Unlock()
		return nil, err
	}
	return s, nil
}

// openContext creates the context of a session.
var openContext = func(ctx *yices2.ContextT) error {
	yices2.InitContext(yices2.ConfigT{}, ctx)
	if yices2.ErrorCode() != 0 {
		return errors.Errorf("yices: cannot create context: %s", yices2.ErrorString())
	}
	return nil
}

// session is one Yices context between Init and Exit.
type session struct {
	ctx    yices2.ContextT
	model  *yices2.ModelT
	theory config.Theory
	logger *logging.Logger
	closed bool
}

// term converts a Yices result into a solver.Term, reporting the Yices error for an invalid term.
func (s *session) term(t yices2.TermT, what string) (solver.Term, error) {
	if t == yices2.NullTerm {
		return nil, errors.Errorf("yices: cannot construct %s: %s", what, yices2.ErrorString())
	}
	return t, nil
}

// terms converts solver terms back into Yices terms.
func terms(ts []solver.Term) []yices2.TermT {
	result := make([]yices2.TermT, len(ts))
	for i, t := range ts {
		result[i] = t.(yices2.TermT)
	}
	return result
}

// Numeral parses decimal text exactly. Text with a fraction or an exponent goes through the float parser, which
// Yices converts to an exact rational.
func (s *session) Numeral(text string) (solver.Term, error) {
	if strings.ContainsAny(text, ".eE") {
		return s.term(yices2.ParseFloat(text), "numeral "+text)
	}
	return s.term(yices2.ParseRational(text), "numeral "+text)
}

func (s *session) Int64(v int64) (solver.Term, error) {
	return s.term(yices2.Int64(v), "integer constant")
}

func (s *session) Variable(name string, integral bool) (solver.Term, error) {
	typ := yices2.RealType()
	if integral {
		typ = yices2.IntType()
	}
	t, err := s.term(yices2.NewUninterpretedTerm(typ), "variable "+name)
	if err != nil {
		return nil, err
	}
	if yices2.SetTermName(t.(yices2.TermT), name) < 0 {
		return nil, errors.Errorf("yices: cannot name variable %s: %s", name, yices2.ErrorString())
	}
	return t, nil
}

func (s *session) Mul(coeff solver.Term, x solver.Term) (solver.Term, error) {
	return s.term(yices2.Mul(coeff.(yices2.TermT), x.(yices2.TermT)), "product")
}

func (s *session) Sum(ts []solver.Term) (solver.Term, error) {
	return s.term(yices2.Sum(terms(ts)), "sum")
}

func (s *session) GeqAtom(x solver.Term, bound solver.Term) (solver.Term, error) {
	return s.term(yices2.ArithGeqAtom(x.(yices2.TermT), bound.(yices2.TermT)), "lower bound")
}

func (s *session) LeqAtom(x solver.Term, bound solver.Term) (solver.Term, error) {
	return s.term(yices2.ArithLeqAtom(x.(yices2.TermT), bound.(yices2.TermT)), "upper bound")
}

func (s *session) ZeroAtom(op symbolic.CompareOp, t solver.Term) (solver.Term, error) {
	x := t.(yices2.TermT)
	switch op {
	case symbolic.OpEQ:
		return s.term(yices2.ArithEq0Atom(x), "atom")
	case symbolic.OpNEQ:
		return s.term(yices2.ArithNeq0Atom(x), "atom")
	case symbolic.OpGT:
		return s.term(yices2.ArithGt0Atom(x), "atom")
	case symbolic.OpLE:
		return s.term(yices2.ArithLeq0Atom(x), "atom")
	case symbolic.OpLT:
		return s.term(yices2.ArithLt0Atom(x), "atom")
	case symbolic.OpGE:
		return s.term(yices2.ArithGeq0Atom(x), "atom")
	}
	return nil, errors.Errorf("yices: unknown comparison operator %d", int(op))
}

// Check asserts the atoms in the context and checks it.
func (s *session) Check(atoms []solver.Term) (solver.Model, bool, error) {
	if yices2.AssertFormulas(s.ctx, terms(atoms)) < 0 {
		return nil, false, errors.Errorf("yices: cannot assert formulas: %s", yices2.ErrorString())
	}

	status := yices2.CheckContext(s.ctx, yices2.ParamT{})
	s.logger.Trace("Checked ", len(atoms), " atoms: status ", status)
	switch status {
	case yices2.StatusSat:
		s.model = yices2.GetModel(s.ctx, 1)
		if s.model == nil {
			return nil, false, errors.Errorf("yices: cannot build model: %s", yices2.ErrorString())
		}
		return &model{model: s.model}, true, nil
	case yices2.StatusUnsat:
		return nil, false, nil
	}
	return nil, false, errors.Errorf("yices: context check ended with status %d: %s", status, yices2.ErrorString())
}

// Close releases the model and context, tears down Yices and releases the global lock.
func (s *session) Close() error {
	if s.closed {
		return errors.New("yices: session closed twice")
	}
	s.closed = true

	if s.model != nil {
		yices2.CloseModel(s.model)
	}
	yices2.CloseContext(&s.ctx)
	yices2.Exit()
	globalLock.Unlock()
	return nil
}

// model reads values from a Yices model.
type model struct {
	model *yices2.ModelT
}

// Value reads a variable's value as a rational when numerator and denominator fit 64 bits, and otherwise from the
// text of the constant term the model assigns to it, so values are always exact.
func (m *model) Value(x solver.Term) (*big.Rat, error) {
	t := x.(yices2.TermT)

	var num int64
	var den uint64
	if yices2.GetRational64Value(*m.model, t, &num, &den) >= 0 {
		return new(big.Rat).SetFrac(big.NewInt(num), new(big.Int).SetUint64(den)), nil
	}

	value := yices2.GetValueAsTerm(*m.model, t)
	if value == yices2.NullTerm {
		return nil, errors.Errorf("yices: cannot read value: %s", yices2.ErrorString())
	}
	return parseRational(yices2.TermToString(value, valueTextWidth, 1, 0))
}

// valueTextWidth is the line width used to print constant terms, wide enough that no constant is broken up.
const valueTextWidth = 1 << 20

// parseRational parses a rational constant as Yices prints it, e.g. "18446744073709551615" or "-1/3".
func parseRational(text string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(text))
	if !ok {
		return nil, errors.Errorf("yices: cannot parse value %q", text)
	}
	return r, nil
}
