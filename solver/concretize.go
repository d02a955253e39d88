package solver

import "github.com/crest-go/crest/symbolic"

// Concretize rounds the value of every integer-typed variable of soln to the nearest integer and re-checks every
// predicate under the rounded assignment. Values of floating point variables are kept as they are. It returns the
// rounded solution and true if every rounded value lies within its type's bounds and every predicate holds, or nil
// and false otherwise. soln is not modified.
func Concretize(vars symbolic.VarEnv, constraints []*symbolic.Predicate, soln symbolic.Solution) (symbolic.Solution, bool) {
	concrete, ok := concretizeExact(vars, constraints, symbolic.ExactSolutionOf(soln))
	if !ok {
		return nil, false
	}
	return concrete.Solution(), true
}

// concretizeExact is Concretize over exact model values. Predicates are re-checked before any value is converted
// to the Value carrier, so non-terminating rationals of floating point variables are checked exactly.
func concretizeExact(vars symbolic.VarEnv, constraints []*symbolic.Predicate, model symbolic.ExactSolution) (symbolic.ExactSolution, bool) {
	concrete := make(symbolic.ExactSolution, len(model))
	for x, r := range model {
		concrete[x] = r
	}
	for x, t := range vars {
		r, ok := concrete[x]
		if !ok || !t.Integral() {
			continue
		}
		rounded := symbolic.RoundRat(r)
		if !t.InBounds(symbolic.ValueFromRat(rounded)) {
			return nil, false
		}
		concrete[x] = rounded
	}

	for _, p := range constraints {
		if !p.HoldsExact(concrete) {
			return nil, false
		}
	}
	return concrete, true
}
