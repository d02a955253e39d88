//go:build z3

package z3

import (
	"math/big"
	"strconv"

	"github.com/crest-go/crest/logging"
	"github.com/crest-go/crest/solver"
	"github.com/crest-go/crest/solver/config"
	"github.com/crest-go/crest/symbolic"
	"github.com/mitchellh/go-z3"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func init() {
	solver.RegisterBackend(&Backend{})
}

// Backend opens Z3 sessions. Each session owns its own Z3 context, so sessions need no serialization.
type Backend struct{}

// Name returns the name the backend is registered under.
func (b *Backend) Name() string {
	return Name
}

// Open creates a Z3 context and solver. Only QF_LRA is supported: every term is built over the real sort.
func (b *Backend) Open(theory config.Theory) (solver.Session, error) {
	if theory != config.QF_LRA {
		return nil, errors.Errorf("z3: unsupported theory %q, only %q is supported", theory, config.QF_LRA)
	}

	cfg := z3.NewConfig()
	ctx := z3.NewContext(cfg)
	return &session{
		config: cfg,
		ctx:    ctx,
		solver: ctx.NewSolver(),
		names:  make(map[*z3.AST]string),
		logger: logging.GlobalLogger.NewSubLogger("module", logging.BACKEND_MODULE).NewSubLogger("backend", Name),
	}, nil
}

// session is one Z3 context with a single solver.
type session struct {
	config *z3.Config
	ctx    *z3.Context
	solver *z3.Solver
	model  *z3.Model

	// names maps each variable term to its declared name, which keys the model assignments.
	names map[*z3.AST]string

	logger *logging.Logger
	closed bool
}

// ast converts a solver.Term back into a Z3 term.
func ast(t solver.Term) *z3.AST {
	return t.(*z3.AST)
}

// Numeral normalizes the text to plain decimal digits before handing it to Z3, which does not accept exponents.
func (s *session) Numeral(text string) (solver.Term, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, errors.Wrapf(err, "z3: invalid numeral %q", text)
	}
	return s.ctx.Num(d.String(), s.ctx.RealSort()), nil
}

func (s *session) Int64(v int64) (solver.Term, error) {
	return s.ctx.Num(strconv.FormatInt(v, 10), s.ctx.RealSort()), nil
}

// Variable declares a real constant. Integrality is not supported since terms of both sorts cannot be mixed.
func (s *session) Variable(name string, integral bool) (solver.Term, error) {
	if integral {
		return nil, errors.Errorf("z3: cannot declare integer variable %s in %s", name, config.QF_LRA)
	}
	x := s.ctx.Const(s.ctx.Symbol(name), s.ctx.RealSort())
	s.names[x] = name
	return x, nil
}

func (s *session) Mul(coeff solver.Term, x solver.Term) (solver.Term, error) {
	return ast(coeff).Mul(ast(x)), nil
}

func (s *session) Sum(ts []solver.Term) (solver.Term, error) {
	if len(ts) == 0 {
		return s.ctx.Num("0", s.ctx.RealSort()), nil
	}
	rest := make([]*z3.AST, 0, len(ts)-1)
	for _, t := range ts[1:] {
		rest = append(rest, ast(t))
	}
	if len(rest) == 0 {
		return ast(ts[0]), nil
	}
	return ast(ts[0]).Add(rest...), nil
}

func (s *session) GeqAtom(x solver.Term, bound solver.Term) (solver.Term, error) {
	return ast(x).Ge(ast(bound)), nil
}

func (s *session) LeqAtom(x solver.Term, bound solver.Term) (solver.Term, error) {
	return ast(x).Le(ast(bound)), nil
}

func (s *session) ZeroAtom(op symbolic.CompareOp, t solver.Term) (solver.Term, error) {
	x := ast(t)
	zero := s.ctx.Num("0", s.ctx.RealSort())
	switch op {
	case symbolic.OpEQ:
		return x.Eq(zero), nil
	case symbolic.OpNEQ:
		return x.Eq(zero).Not(), nil
	case symbolic.OpGT:
		return x.Gt(zero), nil
	case symbolic.OpLE:
		return x.Le(zero), nil
	case symbolic.OpLT:
		return x.Lt(zero), nil
	case symbolic.OpGE:
		return x.Ge(zero), nil
	}
	return nil, errors.Errorf("z3: unknown comparison operator %d", int(op))
}

// Check asserts every atom and checks the solver.
func (s *session) Check(atoms []solver.Term) (solver.Model, bool, error) {
	for _, atom := range atoms {
		s.solver.Assert(ast(atom))
	}

	result := s.solver.Check()
	s.logger.Trace("Checked ", len(atoms), " atoms: result ", result)
	switch result {
	case z3.True:
		s.model = s.solver.Model()
		return &model{assignments: s.model.Assignments(), names: s.names}, true, nil
	case z3.False:
		return nil, false, nil
	}
	return nil, false, errors.New("z3: satisfiability is unknown")
}

// Close releases the model, solver, context and configuration.
func (s *session) Close() error {
	if s.closed {
		return errors.New("z3: session closed twice")
	}
	s.closed = true

	if s.model != nil {
		s.model.Close()
	}
	s.solver.Close()
	s.ctx.Close()
	s.config.Close()
	return nil
}

// model holds the assignments of a Z3 model by variable name.
type model struct {
	assignments map[string]*z3.AST
	names       map[*z3.AST]string
}

// Value looks up a variable's assignment and parses it exactly. Z3 omits variables whose value does not matter,
// which read as zero.
func (m *model) Value(x solver.Term) (*big.Rat, error) {
	name, ok := m.names[ast(x)]
	if !ok {
		return nil, errors.New("z3: term is not a declared variable")
	}

	value, ok := m.assignments[name]
	if !ok {
		return new(big.Rat), nil
	}
	return parseModelValue(value.String())
}
