package solver

import (
	"sync"
	"time"

	"github.com/crest-go/crest/logging"
	"github.com/crest-go/crest/logging/colors"
	"github.com/crest-go/crest/solver/config"
	"github.com/crest-go/crest/symbolic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Solver decides path conditions with a registered Backend and extracts satisfying assignments. Each query opens a
// fresh backend session which is closed before the query returns.
type Solver struct {
	// config describes the solver configuration.
	config *config.SolverConfig

	// backend is the decision procedure queries are sent to.
	backend Backend

	// logger describes the Solver's log object that can be used to log important events
	logger *logging.Logger

	// stats holds the counters accumulated across queries.
	stats Stats

	// statsLock guards stats.
	statsLock sync.Mutex

	// Events describes the event system for the Solver.
	Events SolverEvents
}

// NewSolver returns a Solver for the provided configuration, or the default configuration if cfg is nil.
// Returns an error if the configuration is invalid or names an unregistered backend.
func NewSolver(cfg *config.SolverConfig) (*Solver, error) {
	if cfg == nil {
		cfg = config.GetDefaultSolverConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := LookupBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	return &Solver{
		config:  cfg,
		backend: backend,
		logger:  logging.GlobalLogger.NewSubLogger("module", logging.SOLVER_MODULE),
	}, nil
}

// Config returns the configuration the solver was created with.
func (s *Solver) Config() *config.SolverConfig {
	return s.config
}

// Backend returns the decision procedure the solver sends queries to.
func (s *Solver) Backend() Backend {
	return s.backend
}

// Solve decides the conjunction of constraints with every variable of vars bounded to its type's domain. It returns
// a solution assigning every variable of vars and true if the query is satisfiable, or nil and false if it is not.
// Unsatisfiability is not an error: a non-nil error means the query could not be decided, and is a *FatalError when
// a predicate is malformed or the backend failed.
func (s *Solver) Solve(vars symbolic.VarEnv, constraints []*symbolic.Predicate) (symbolic.Solution, bool, error) {
	return s.run(vars, constraints, false)
}

// run performs one query with its events, logs and statistics.
func (s *Solver) run(vars symbolic.VarEnv, constraints []*symbolic.Predicate, incremental bool) (symbolic.Solution, bool, error) {
	sessionID := uuid.New()
	err := s.Events.SolveStarted.Publish(SolveStartedEvent{
		Solver:      s,
		SessionID:   sessionID,
		Incremental: incremental,
		Variables:   len(vars),
		Constraints: len(constraints),
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "error returned by an event handler when a solve started")
	}

	start := time.Now()
	soln, ok, err := s.solve(vars, constraints)
	elapsed := time.Since(start)
	if err != nil {
		soln, ok = nil, false
	}
	s.recordSolve(len(vars), len(constraints), ok, err, elapsed)

	info := logging.StructuredLogInfo{
		"session":     sessionID.String(),
		"backend":     s.backend.Name(),
		"variables":   len(vars),
		"constraints": len(constraints),
		"incremental": incremental,
		"elapsed":     elapsed.String(),
	}
	switch {
	case err != nil:
		s.logger.Error("Query ", sessionID.String(), " failed", err, info)
	case ok:
		s.logger.Debug("Query ", sessionID.String(), " is ", colors.Green, "satisfiable", info)
	default:
		s.logger.Debug("Query ", sessionID.String(), " is ", colors.Red, "unsatisfiable", info)
	}

	publishErr := s.Events.SolveFinished.Publish(SolveFinishedEvent{
		Solver:      s,
		SessionID:   sessionID,
		Satisfiable: ok,
		Err:         err,
		Elapsed:     elapsed,
	})
	if err == nil && publishErr != nil {
		return nil, false, errors.Wrap(publishErr, "error returned by an event handler when a solve finished")
	}
	return soln, ok, err
}

// solve encodes and decides one query inside a backend session that is closed on every return path.
func (s *Solver) solve(vars symbolic.VarEnv, constraints []*symbolic.Predicate) (_ symbolic.Solution, _ bool, err error) {
	session, err := s.backend.Open(s.config.Theory)
	if err != nil {
		return nil, false, newFatalError(SessionConstruction, errors.Wrapf(err, "failed to open a %s session", s.backend.Name()))
	}
	defer func() {
		closeErr := session.Close()
		if closeErr != nil && err == nil {
			err = newFatalError(SessionConstruction, errors.Wrap(closeErr, "failed to close session"))
		}
	}()

	enc := &encoder{session: session, theory: s.config.Theory}
	bounds, err := enc.typeBounds()
	if err != nil {
		return nil, false, err
	}
	terms, atoms, err := enc.declareVars(vars, bounds)
	if err != nil {
		return nil, false, err
	}
	for _, p := range constraints {
		atom, err := enc.predicateAtom(p, terms)
		if err != nil {
			return nil, false, err
		}
		atoms = append(atoms, atom)
	}

	model, sat, err := session.Check(atoms)
	if err != nil {
		return nil, false, newFatalError(SessionConstruction, errors.Wrap(err, "failed to check query"))
	}
	if !sat {
		return nil, false, nil
	}

	exact := make(symbolic.ExactSolution, len(vars))
	for x, term := range terms {
		r, err := model.Value(term)
		if err != nil {
			return nil, false, newFatalError(SessionConstruction, errors.Wrapf(err, "failed to read the value of %s", x))
		}
		exact[x] = r
	}

	if s.config.Concretize {
		concrete, ok := concretizeExact(vars, constraints, exact)
		if !ok {
			s.logger.Debug("Model has no integral rounding satisfying every predicate", logging.StructuredLogInfo{"model": exact.Solution()})
			return nil, false, nil
		}
		exact = concrete
	}
	soln := exact.Solution()
	return soln, true, nil
}

// typeBound holds the bound terms of one value type.
type typeBound struct {
	min Term
	max Term
}

// encoder builds the terms of one query in a session.
type encoder struct {
	session Session
	theory  config.Theory
}

// construct returns a function passing a session result through, wrapping a failure as a fatal error naming what
// was being built.
func construct(what string) func(Term, error) (Term, error) {
	return func(term Term, err error) (Term, error) {
		if err != nil {
			return nil, newFatalError(SessionConstruction, errors.Wrapf(err, "failed to construct %s", what))
		}
		return term, nil
	}
}

// numeral builds a constant, through an int64 literal when the value is an integer that fits one and through its
// exact decimal text otherwise.
func (e *encoder) numeral(v symbolic.Value) (Term, error) {
	if i, ok := int64Of(v); ok {
		return construct("numeral " + v.String())(e.session.Int64(i))
	}
	return construct("numeral " + v.String())(e.session.Numeral(v.String()))
}

// boundNumeral builds a bound constant. Floating point bounds, and integer bounds outside the int64 range, are
// built from the bound's exact text.
func (e *encoder) boundNumeral(t symbolic.ValueType, b symbolic.Bound) (Term, error) {
	if t.Integral() {
		if i, ok := int64Of(b.Value); ok {
			return construct("bound " + b.Text + " of " + t.String())(e.session.Int64(i))
		}
	}
	return construct("bound " + b.Text + " of " + t.String())(e.session.Numeral(b.Text))
}

// typeBounds builds the bound terms of every value type.
func (e *encoder) typeBounds() ([symbolic.NumValueTypes]typeBound, error) {
	var bounds [symbolic.NumValueTypes]typeBound
	for _, t := range symbolic.ValueTypes() {
		lo, hi := symbolic.Bounds(t)
		minTerm, err := e.boundNumeral(t, lo)
		if err != nil {
			return bounds, err
		}
		maxTerm, err := e.boundNumeral(t, hi)
		if err != nil {
			return bounds, err
		}
		bounds[t] = typeBound{min: minTerm, max: maxTerm}
	}
	return bounds, nil
}

// declareVars declares every variable in ascending order and returns the variable terms with the atoms bounding
// each variable to its type's domain.
func (e *encoder) declareVars(vars symbolic.VarEnv, bounds [symbolic.NumValueTypes]typeBound) (map[symbolic.VarID]Term, []Term, error) {
	terms := make(map[symbolic.VarID]Term, len(vars))
	atoms := make([]Term, 0, 2*len(vars))
	for _, x := range vars.Vars() {
		t := vars[x]
		if !t.Valid() {
			return nil, nil, malformedf("variable %s has unknown type %d", x, int(t))
		}

		integral := e.theory == config.QF_LIRA && t.Integral()
		term, err := construct("variable " + x.String())(e.session.Variable(x.String(), integral))
		if err != nil {
			return nil, nil, err
		}
		terms[x] = term

		geq, err := construct("lower bound of " + x.String())(e.session.GeqAtom(term, bounds[t].min))
		if err != nil {
			return nil, nil, err
		}
		leq, err := construct("upper bound of " + x.String())(e.session.LeqAtom(term, bounds[t].max))
		if err != nil {
			return nil, nil, err
		}
		atoms = append(atoms, geq, leq)
	}
	return terms, atoms, nil
}

// predicateAtom builds the atom "const + sum(coeff * x) op 0" for a predicate.
func (e *encoder) predicateAtom(p *symbolic.Predicate, terms map[symbolic.VarID]Term) (Term, error) {
	if p == nil {
		return nil, malformedf("nil predicate")
	}
	if !p.Op.Valid() {
		return nil, malformedf("predicate %q has unknown comparison operator %d", p.String(), int(p.Op))
	}

	constTerm, err := e.numeral(p.Expr.Const)
	if err != nil {
		return nil, err
	}
	summands := []Term{constTerm}
	for _, x := range p.Expr.Vars() {
		varTerm, ok := terms[x]
		if !ok {
			return nil, malformedf("predicate %q references undeclared variable %s", p.String(), x)
		}
		coeff, err := e.numeral(p.Expr.Coeffs[x])
		if err != nil {
			return nil, err
		}
		product, err := construct("product for " + x.String())(e.session.Mul(coeff, varTerm))
		if err != nil {
			return nil, err
		}
		summands = append(summands, product)
	}

	sum, err := construct("sum of " + p.Expr.String())(e.session.Sum(summands))
	if err != nil {
		return nil, err
	}
	return construct("atom " + p.String())(e.session.ZeroAtom(p.Op, sum))
}

var (
	minInt64 = symbolic.NewValue(-1 << 63)
	maxInt64 = symbolic.NewValue(1<<63 - 1)
)

// int64Of returns v as an int64 if it is an integer within the int64 range.
func int64Of(v symbolic.Value) (int64, bool) {
	if !v.IsInteger() || v.LessThan(minInt64) || v.GreaterThan(maxInt64) {
		return 0, false
	}
	return v.IntPart(), true
}
