package symbolic

import (
	"fmt"
	"strconv"

	"github.com/crest-go/crest/utils"
)

// String renders the variable as "x<id>", the name it is given in solver queries.
func (x VarID) String() string {
	return "x" + strconv.FormatUint(uint64(x), 10)
}

// VarEnv maps each symbolic variable to its declared type, which bounds the values the variable may take.
type VarEnv map[VarID]ValueType

// Vars returns the variables of the environment in ascending order.
func (env VarEnv) Vars() []VarID {
	return utils.SortedKeys(env)
}

// Solution is one concrete assignment of values to variables.
type Solution map[VarID]Value

// Clone returns a copy of the solution.
func (s Solution) Clone() Solution {
	c := make(Solution, len(s))
	for x, v := range s {
		c[x] = v
	}
	return c
}

// Vars returns the assigned variables in ascending order.
func (s Solution) Vars() []VarID {
	return utils.SortedKeys(s)
}

// Predicate asserts "Expr Op 0" over symbolic variables. A path condition is an ordered sequence of predicates.
type Predicate struct {
	// Op is the comparison applied between Expr and zero.
	Op CompareOp `json:"op"`

	// Expr is the linear expression being compared.
	Expr LinearExpr `json:"expr"`
}

// NewPredicate creates a predicate asserting "expr op 0".
func NewPredicate(op CompareOp, expr *LinearExpr) *Predicate {
	return &Predicate{Op: op, Expr: *expr.Clone()}
}

// Negate returns a new predicate which holds exactly when p does not.
func (p *Predicate) Negate() *Predicate {
	return &Predicate{Op: NegateOp(p.Op), Expr: *p.Expr.Clone()}
}

// AppendVars adds every variable mentioned by the predicate to the provided set.
func (p *Predicate) AppendVars(vars map[VarID]struct{}) {
	p.Expr.AppendVars(vars)
}

// Vars returns the variables mentioned by the predicate in ascending order.
func (p *Predicate) Vars() []VarID {
	return p.Expr.Vars()
}

// DependsOn indicates whether every variable of the predicate is a key of vars.
func (p *Predicate) DependsOn(vars VarEnv) bool {
	return p.Expr.DependsOn(vars)
}

// Holds evaluates the predicate under an assignment. A predicate mentioning an unassigned variable does not hold.
func (p *Predicate) Holds(assignment Solution) bool {
	v, ok := p.Expr.Eval(assignment)
	if !ok {
		return false
	}
	return p.Op.Holds(v.Sign())
}

// String renders the predicate, e.g. "-5 + x0 == 0".
func (p *Predicate) String() string {
	return fmt.Sprintf("%s %s 0", p.Expr.String(), p.Op.Symbol())
}
