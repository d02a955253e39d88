package symbolic

import (
	"encoding/json"
	"strings"

	"github.com/crest-go/crest/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// VarID identifies a symbolic input variable.
type VarID uint32

// LinearExpr is a linear combination of symbolic variables plus a constant offset: Const + sum(Coeffs[x] * x).
// Coefficients are never stored as zero.
type LinearExpr struct {
	// Const is the constant offset of the expression.
	Const Value `json:"const"`

	// Coeffs maps each variable in the expression to its coefficient.
	Coeffs map[VarID]Value `json:"coeffs,omitempty"`
}

// NewConstExpr creates an expression with no variables.
func NewConstExpr(c Value) *LinearExpr {
	return &LinearExpr{Const: c, Coeffs: make(map[VarID]Value)}
}

// NewVarExpr creates the expression "1 * x".
func NewVarExpr(x VarID) *LinearExpr {
	e := NewConstExpr(decimal.Zero)
	e.Coeffs[x] = decimal.NewFromInt(1)
	return e
}

// UnmarshalJSON decodes an expression, dropping zero coefficients.
func (e *LinearExpr) UnmarshalJSON(b []byte) error {
	// rawLinearExpr has no methods, so decoding into it does not recurse.
	type rawLinearExpr LinearExpr
	var raw rawLinearExpr
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.WithStack(err)
	}

	*e = *NewConstExpr(raw.Const)
	for x, coeff := range raw.Coeffs {
		e.AddTerm(x, coeff)
	}
	return nil
}

// Clone returns a deep copy of the expression.
func (e *LinearExpr) Clone() *LinearExpr {
	c := NewConstExpr(e.Const)
	for x, coeff := range e.Coeffs {
		c.Coeffs[x] = coeff
	}
	return c
}

// IsConst indicates whether the expression mentions no variables.
func (e *LinearExpr) IsConst() bool {
	return len(e.Coeffs) == 0
}

// AddConst adds c to the constant offset. Returns the expression to allow chaining.
func (e *LinearExpr) AddConst(c Value) *LinearExpr {
	e.Const = e.Const.Add(c)
	return e
}

// AddTerm adds "coeff * x" to the expression, dropping x if its coefficient becomes zero. Returns the expression to
// allow chaining.
func (e *LinearExpr) AddTerm(x VarID, coeff Value) *LinearExpr {
	if e.Coeffs == nil {
		e.Coeffs = make(map[VarID]Value)
	}
	sum := coeff
	if existing, ok := e.Coeffs[x]; ok {
		sum = existing.Add(coeff)
	}
	if sum.IsZero() {
		delete(e.Coeffs, x)
	} else {
		e.Coeffs[x] = sum
	}
	return e
}

// Add adds another expression to this one. Returns the expression to allow chaining.
func (e *LinearExpr) Add(other *LinearExpr) *LinearExpr {
	e.AddConst(other.Const)
	for x, coeff := range other.Coeffs {
		e.AddTerm(x, coeff)
	}
	return e
}

// Scale multiplies the constant and every coefficient by c. Scaling by zero leaves the constant zero expression.
func (e *LinearExpr) Scale(c Value) *LinearExpr {
	if c.IsZero() {
		e.Const = decimal.Zero
		e.Coeffs = make(map[VarID]Value)
		return e
	}
	e.Const = e.Const.Mul(c)
	for x, coeff := range e.Coeffs {
		e.Coeffs[x] = coeff.Mul(c)
	}
	return e
}

// Negate multiplies the expression by -1.
func (e *LinearExpr) Negate() *LinearExpr {
	return e.Scale(decimal.NewFromInt(-1))
}

// AppendVars adds every variable of the expression to the provided set.
func (e *LinearExpr) AppendVars(vars map[VarID]struct{}) {
	for x := range e.Coeffs {
		vars[x] = struct{}{}
	}
}

// Vars returns the variables of the expression in ascending order.
func (e *LinearExpr) Vars() []VarID {
	return utils.SortedKeys(e.Coeffs)
}

// DependsOn indicates whether every variable of the expression is a key of vars.
func (e *LinearExpr) DependsOn(vars VarEnv) bool {
	for x := range e.Coeffs {
		if _, ok := vars[x]; !ok {
			return false
		}
	}
	return true
}

// Eval evaluates the expression under an assignment. Returns false if a variable has no assigned value.
func (e *LinearExpr) Eval(assignment Solution) (Value, bool) {
	result := e.Const
	for x, coeff := range e.Coeffs {
		v, ok := assignment[x]
		if !ok {
			return Value{}, false
		}
		result = result.Add(coeff.Mul(v))
	}
	return result, true
}

// String renders the expression in a readable infix form, e.g. "3 + 2*x1 - x4".
func (e *LinearExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Const.String())
	for _, x := range e.Vars() {
		coeff := e.Coeffs[x]
		if coeff.IsNegative() {
			sb.WriteString(" - ")
			coeff = coeff.Neg()
		} else {
			sb.WriteString(" + ")
		}
		if !coeff.Equal(decimal.NewFromInt(1)) {
			sb.WriteString(coeff.String())
			sb.WriteString("*")
		}
		sb.WriteString(x.String())
	}
	return sb.String()
}
