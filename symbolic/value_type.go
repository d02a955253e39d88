package symbolic

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ValueType identifies one of the native variable types an instrumented program may mark as symbolic. The variants
// are naturally ordered, alternating unsigned and signed integer types of increasing width, followed by the two
// floating point types.
type ValueType int

const (
	UChar ValueType = iota
	Char
	UShort
	Short
	UInt
	Int
	ULong
	Long
	ULongLong
	LongLong
	Float
	Double
)

// NumValueTypes is the number of ValueType variants. Every per-type table in this package has exactly this many
// entries, indexed by ValueType.
const NumValueTypes = int(Double) + 1

// valueTypeNames holds the textual name of each ValueType.
var valueTypeNames = [NumValueTypes]string{
	"U_CHAR", "CHAR",
	"U_SHORT", "SHORT",
	"U_INT", "INT",
	"U_LONG", "LONG",
	"U_LONG_LONG", "LONG_LONG",
	"FLOAT", "DOUBLE",
}

// byteWidths holds the native storage width of each ValueType. LONG and U_LONG are 32-bit, which is what the bound
// tables below encode.
var byteWidths = [NumValueTypes]int{
	1, 1,
	2, 2,
	4, 4,
	4, 4,
	8, 8,
	4, 8,
}

// minValueText and maxValueText hold the exact decimal text of each type's inclusive bounds. The numeric bounds are
// parsed from this text so the two never disagree. Solver encodings must build bound terms from the text, not from
// an intermediate binary float.
var minValueText = [NumValueTypes]string{
	"0",
	"-128",
	"0",
	"-32768",
	"0",
	"-2147483648",
	"0",
	"-2147483648",
	"0",
	"-9223372036854775808",
	"-3.402823466e+38",
	"-1.7976931348623158e+308",
}

var maxValueText = [NumValueTypes]string{
	"255",
	"127",
	"65535",
	"32767",
	"4294967295",
	"2147483647",
	"4294967295",
	"2147483647",
	"18446744073709551615",
	"9223372036854775807",
	"3.402823466e+38",
	"1.7976931348623158e+308",
}

var minValues, maxValues [NumValueTypes]Value

func init() {
	for i := 0; i < NumValueTypes; i++ {
		minValues[i] = decimal.RequireFromString(minValueText[i])
		maxValues[i] = decimal.RequireFromString(maxValueText[i])
	}
}

// Bound describes one end of a type's legal domain, both as a numeric Value and as the exact decimal text it was
// parsed from.
type Bound struct {
	// Value is the numeric bound.
	Value Value

	// Text is the exact decimal representation of the bound.
	Text string
}

// ValueTypes returns every ValueType in its natural order.
func ValueTypes() []ValueType {
	types := make([]ValueType, NumValueTypes)
	for i := range types {
		types[i] = ValueType(i)
	}
	return types
}

// Valid indicates whether t is one of the known ValueType variants.
func (t ValueType) Valid() bool {
	return t >= UChar && t <= Double
}

// mustBeValid panics if t is not a known variant. Out-of-range types can only come from a broken caller.
func (t ValueType) mustBeValid() {
	if !t.Valid() {
		panic(fmt.Sprintf("unreachable: unknown value type %d", int(t)))
	}
}

// IsFloating indicates whether t is FLOAT or DOUBLE.
func (t ValueType) IsFloating() bool {
	t.mustBeValid()
	return t == Float || t == Double
}

// Integral indicates whether t is one of the integer types.
func (t ValueType) Integral() bool {
	return !t.IsFloating()
}

// IsSigned indicates whether t can represent negative values. Integer variants alternate unsigned/signed.
func (t ValueType) IsSigned() bool {
	t.mustBeValid()
	return t.IsFloating() || t%2 == 1
}

// ByteWidth returns the native storage width of t in bytes.
func (t ValueType) ByteWidth() int {
	t.mustBeValid()
	return byteWidths[t]
}

// Bounds returns the inclusive lower and upper bounds of t.
func (t ValueType) Bounds() (Bound, Bound) {
	t.mustBeValid()
	return Bound{Value: minValues[t], Text: minValueText[t]}, Bound{Value: maxValues[t], Text: maxValueText[t]}
}

// InBounds indicates whether v lies within the inclusive bounds of t.
func (t ValueType) InBounds(v Value) bool {
	min, max := t.Bounds()
	return v.GreaterThanOrEqual(min.Value) && v.LessThanOrEqual(max.Value)
}

// ByteWidth returns the native storage width of t in bytes.
func ByteWidth(t ValueType) int {
	return t.ByteWidth()
}

// Bounds returns the inclusive lower and upper bounds of t.
func Bounds(t ValueType) (Bound, Bound) {
	return t.Bounds()
}

// String returns the textual name of the type, e.g. "U_INT".
func (t ValueType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
	return valueTypeNames[t]
}

// ParseValueType parses a textual type name, case-insensitively.
func ParseValueType(s string) (ValueType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range valueTypeNames {
		if n == name {
			return ValueType(i), nil
		}
	}
	return 0, errors.Errorf("unknown value type %q", s)
}

// MarshalText encodes the type as its textual name.
func (t ValueType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errors.Errorf("cannot marshal unknown value type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a textual type name.
func (t *ValueType) UnmarshalText(text []byte) error {
	parsed, err := ParseValueType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
