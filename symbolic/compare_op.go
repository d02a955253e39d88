package symbolic

import (
	"fmt"

	"github.com/pkg/errors"
)

// CompareOp is the comparison a Predicate applies between its expression and zero. Operators are laid out in pairs
// so that flipping the lowest bit of an operator yields its logical negation.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNEQ
	OpGT
	OpLE
	OpLT
	OpGE
)

// numCompareOps is the number of CompareOp variants.
const numCompareOps = int(OpGE) + 1

var compareOpNames = [numCompareOps]string{"EQ", "NEQ", "GT", "LE", "LT", "GE"}

var compareOpSymbols = [numCompareOps]string{"==", "!=", ">", "<=", "<", ">="}

// NegateOp returns the logical negation of op: EQ<->NEQ, GT<->LE, LT<->GE.
func NegateOp(op CompareOp) CompareOp {
	return op ^ 1
}

// Negate returns the logical negation of op.
func (op CompareOp) Negate() CompareOp {
	return NegateOp(op)
}

// Valid indicates whether op is one of the six known operators.
func (op CompareOp) Valid() bool {
	return op >= OpEQ && op <= OpGE
}

// Holds reports whether "x op 0" is true for a value x whose sign (as returned by Cmp/Sign: -1, 0 or 1) is given.
func (op CompareOp) Holds(sign int) bool {
	switch op {
	case OpEQ:
		return sign == 0
	case OpNEQ:
		return sign != 0
	case OpGT:
		return sign > 0
	case OpLE:
		return sign <= 0
	case OpLT:
		return sign < 0
	case OpGE:
		return sign >= 0
	}
	panic(fmt.Sprintf("unreachable: unknown comparison operator %d", int(op)))
}

// Symbol returns the operator's infix symbol, e.g. "<=".
func (op CompareOp) Symbol() string {
	if !op.Valid() {
		return fmt.Sprintf("?%d", int(op))
	}
	return compareOpSymbols[op]
}

// String returns the operator's name, e.g. "LE".
func (op CompareOp) String() string {
	if !op.Valid() {
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
	return compareOpNames[op]
}

// ParseCompareOp parses either an operator name ("GE") or its symbol (">=").
func ParseCompareOp(s string) (CompareOp, error) {
	for i := 0; i < numCompareOps; i++ {
		if s == compareOpNames[i] || s == compareOpSymbols[i] {
			return CompareOp(i), nil
		}
	}
	return 0, errors.Errorf("unknown comparison operator %q", s)
}

// MarshalText encodes the operator as its name.
func (op CompareOp) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, errors.Errorf("cannot marshal unknown comparison operator %d", int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText decodes an operator name or symbol.
func (op *CompareOp) UnmarshalText(text []byte) error {
	parsed, err := ParseCompareOp(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}
