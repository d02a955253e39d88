package symbolic

import (
	"fmt"
	"math/big"

	"github.com/crest-go/crest/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Value is the uniform numeric carrier for concrete and symbolic constants. It is an arbitrary-precision decimal, so
// every bound of every ValueType, including the maximum unsigned 64-bit value, is held exactly.
type Value = decimal.Decimal

// NewValue creates a Value from an integer.
func NewValue(i int64) Value {
	return decimal.NewFromInt(i)
}

// ParseValue parses a Value from decimal text such as "42", "-0.5" or "1.7976931348623158e+308".
func ParseValue(s string) (Value, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, errors.Wrapf(err, "invalid value %q", s)
	}
	return v, nil
}

// RequireValue parses a Value from decimal text and panics if the text is malformed. It is meant for constants.
func RequireValue(s string) Value {
	return decimal.RequireFromString(s)
}

// RatPrecision is the number of fractional digits kept when a non-terminating rational is converted to a Value.
const RatPrecision = 20

// ValueFromRat converts a rational model value to a Value. Integers and rationals with a terminating decimal
// expansion within RatPrecision digits are converted exactly.
func ValueFromRat(r *big.Rat) Value {
	num := decimal.NewFromBigInt(r.Num(), 0)
	if r.IsInt() {
		return num
	}
	return num.DivRound(decimal.NewFromBigInt(r.Denom(), 0), RatPrecision)
}

// Cast reinterprets v as if a native variable of type t received it. Integer types of at most 32 bits truncate any
// fractional part toward zero and then wrap around to the type's bit width and signedness. The two 64-bit integer
// types and the two floating point types leave v untouched.
func Cast(v Value, t ValueType) Value {
	switch t {
	case UChar, Char, UShort, Short, UInt, Int, ULong, Long:
		wrapped := utils.ConstrainIntegerToBitLength(v.BigInt(), t.IsSigned(), t.ByteWidth()*8)
		return decimal.NewFromBigInt(wrapped, 0)
	case ULongLong, LongLong, Float, Double:
		return v
	}
	panic(fmt.Sprintf("unreachable: cast to unknown value type %d", int(t)))
}
