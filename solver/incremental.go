package solver

import (
	"github.com/crest-go/crest/logging"
	"github.com/crest-go/crest/symbolic"
	"github.com/crest-go/crest/utils"
	"github.com/pkg/errors"
)

// DependencySlice returns the variables transitively connected to the last predicate of constraints, where two
// variables are connected when some predicate mentions both, together with the predicates that mention only those
// variables. The predicates keep their relative order. Every predicate mentioning none of the connected variables
// and at least one other variable is left out, since it cannot constrain the variables of the last predicate.
func DependencySlice(vars symbolic.VarEnv, constraints []*symbolic.Predicate) (symbolic.VarEnv, []*symbolic.Predicate, error) {
	if len(constraints) == 0 {
		return nil, nil, errors.New("cannot slice an empty path condition")
	}

	// Build the co-occurrence graph
	depends := make(map[symbolic.VarID]map[symbolic.VarID]struct{})
	for _, p := range constraints {
		if p == nil {
			return nil, nil, malformedf("nil predicate")
		}
		mentioned := p.Vars()
		for _, x := range mentioned {
			if _, ok := vars[x]; !ok {
				return nil, nil, malformedf("predicate %q references undeclared variable %s", p.String(), x)
			}
			if depends[x] == nil {
				depends[x] = make(map[symbolic.VarID]struct{})
			}
			for _, y := range mentioned {
				if y != x {
					depends[x][y] = struct{}{}
				}
			}
		}
	}

	// Breadth-first search from the variables of the newest predicate
	sliceVars := make(symbolic.VarEnv)
	queue := constraints[len(constraints)-1].Vars()
	for _, x := range queue {
		sliceVars[x] = vars[x]
	}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, y := range utils.SortedKeys(depends[x]) {
			if _, visited := sliceVars[y]; !visited {
				sliceVars[y] = vars[y]
				queue = append(queue, y)
			}
		}
	}

	sliced := make([]*symbolic.Predicate, 0, len(constraints))
	for _, p := range constraints {
		if p.DependsOn(sliceVars) {
			sliced = append(sliced, p)
		}
	}
	return sliceVars, sliced, nil
}

// IncrementalSolve solves a path condition of which only the last predicate is new relative to the call that
// produced old. Only the dependency slice of the last predicate is sent to the backend. Every variable referenced by
// constraints but outside the slice keeps its value from old. A variable missing from old is assigned zero.
// Returns the merged solution and true if the slice is satisfiable, or nil and false if it is not.
func (s *Solver) IncrementalSolve(old symbolic.Solution, vars symbolic.VarEnv, constraints []*symbolic.Predicate) (symbolic.Solution, bool, error) {
	sliceVars, sliced, err := DependencySlice(vars, constraints)
	if err != nil {
		return nil, false, err
	}
	s.recordSlice(len(constraints), len(sliced))
	s.logger.Trace("Sliced path condition to the newest predicate", logging.StructuredLogInfo{
		"variables":         len(vars),
		"slicedVariables":   len(sliceVars),
		"constraints":       len(constraints),
		"slicedConstraints": len(sliced),
	})

	soln, ok, err := s.run(sliceVars, sliced, true)
	if err != nil || !ok {
		return nil, false, err
	}

	// Carry every other constrained variable forward from the previous solution
	referenced := make(map[symbolic.VarID]struct{})
	for _, p := range constraints {
		p.AppendVars(referenced)
	}
	for _, x := range utils.SortedKeys(referenced) {
		if _, solved := soln[x]; solved {
			continue
		}
		v, ok := old[x]
		if !ok {
			s.logger.Warn("Previous solution has no value for ", x.String(), ", assigning zero")
			v = symbolic.NewValue(0)
		}
		soln[x] = v
	}
	return soln, true, nil
}
