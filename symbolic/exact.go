package symbolic

import "math/big"

// ExactSolution is an assignment of exact rational values, as read from a solver model before conversion to the
// Value carrier.
type ExactSolution map[VarID]*big.Rat

// ExactSolutionOf converts a solution to exact rationals.
func ExactSolutionOf(s Solution) ExactSolution {
	exact := make(ExactSolution, len(s))
	for x, v := range s {
		exact[x] = v.Rat()
	}
	return exact
}

// Solution converts every value with ValueFromRat.
func (s ExactSolution) Solution() Solution {
	soln := make(Solution, len(s))
	for x, r := range s {
		soln[x] = ValueFromRat(r)
	}
	return soln
}

// EvalExact evaluates the expression under an exact assignment. Returns false if a variable has no assigned value.
func (e *LinearExpr) EvalExact(assignment ExactSolution) (*big.Rat, bool) {
	result := e.Const.Rat()
	for x, coeff := range e.Coeffs {
		v, ok := assignment[x]
		if !ok {
			return nil, false
		}
		result.Add(result, new(big.Rat).Mul(coeff.Rat(), v))
	}
	return result, true
}

// HoldsExact evaluates the predicate under an exact assignment. A predicate mentioning an unassigned variable does
// not hold.
func (p *Predicate) HoldsExact(assignment ExactSolution) bool {
	v, ok := p.Expr.EvalExact(assignment)
	if !ok {
		return false
	}
	return p.Op.Holds(v.Sign())
}

// RoundRat rounds r to the nearest integer, with halves rounded away from zero like Value.Round(0).
func RoundRat(r *big.Rat) *big.Rat {
	if r.IsInt() {
		return new(big.Rat).Set(r)
	}
	// floor((2|n| + d) / 2d)
	num := new(big.Int).Abs(r.Num())
	num.Lsh(num, 1).Add(num, r.Denom())
	den := new(big.Int).Lsh(r.Denom(), 1)
	rounded := num.Quo(num, den)
	if r.Sign() < 0 {
		rounded.Neg(rounded)
	}
	return new(big.Rat).SetInt(rounded)
}
