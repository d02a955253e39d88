package z3

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// parseModelValue parses an arithmetic value as Z3 prints it in a model: an integer or decimal numeral, optionally
// wrapped in SMT-LIB negation and division applications, e.g. "5", "2.5", "(- 5.0)" or "(- (/ 1.0 3.0))".
func parseModelValue(s string) (*big.Rat, error) {
	tokens := tokenize(s)
	r, rest, err := parseTerm(tokens)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse model value %q", s)
	}
	if len(rest) != 0 {
		return nil, errors.Errorf("cannot parse model value %q: trailing %q", s, strings.Join(rest, " "))
	}
	return r, nil
}

// tokenize splits an s-expression into parentheses and atoms.
func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}

// parseTerm parses one term from the front of tokens and returns its value and the remaining tokens.
func parseTerm(tokens []string) (*big.Rat, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, errors.New("unexpected end of input")
	}

	head := tokens[0]
	if head == ")" {
		return nil, nil, errors.New("unexpected )")
	}
	if head != "(" {
		r, ok := new(big.Rat).SetString(head)
		if !ok {
			return nil, nil, errors.Errorf("invalid numeral %q", head)
		}
		return r, tokens[1:], nil
	}

	if len(tokens) < 2 {
		return nil, nil, errors.New("unexpected end of input")
	}
	op := tokens[1]
	rest := tokens[2:]
	var args []*big.Rat
	for len(rest) > 0 && rest[0] != ")" {
		var arg *big.Rat
		var err error
		arg, rest, err = parseTerm(rest)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, arg)
	}
	if len(rest) == 0 {
		return nil, nil, errors.New("missing )")
	}
	rest = rest[1:]

	switch {
	case op == "-" && len(args) == 1:
		return new(big.Rat).Neg(args[0]), rest, nil
	case op == "-" && len(args) > 1:
		r := new(big.Rat).Set(args[0])
		for _, arg := range args[1:] {
			r.Sub(r, arg)
		}
		return r, rest, nil
	case op == "/" && len(args) == 2:
		if args[1].Sign() == 0 {
			return nil, nil, errors.New("division by zero")
		}
		return new(big.Rat).Quo(args[0], args[1]), rest, nil
	}
	return nil, nil, errors.Errorf("unsupported application of %q to %d arguments", op, len(args))
}
