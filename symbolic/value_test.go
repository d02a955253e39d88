package symbolic

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastWrapsNarrowIntegers(t *testing.T) {
	tests := []struct {
		value    string
		vt       ValueType
		expected string
	}{
		{"256", UChar, "0"},
		{"-1", UChar, "255"},
		{"200", Char, "-56"},
		{"-129", Char, "127"},
		{"65536", UShort, "0"},
		{"32768", Short, "-32768"},
		{"-1", UInt, "4294967295"},
		{"2147483648", Int, "-2147483648"},
		{"4294967296", ULong, "0"},
		{"2147483648", Long, "-2147483648"},
		{"3.9", Int, "3"},
		{"-3.9", Int, "-3"},
		{"-0.5", UChar, "0"},
		{"255.99", UChar, "255"},
	}
	for _, test := range tests {
		actual := Cast(RequireValue(test.value), test.vt)
		assert.True(t, actual.Equal(RequireValue(test.expected)), "cast %s to %s gave %s", test.value, test.vt, actual)
	}
}

func TestCastLeavesWideTypesUntouched(t *testing.T) {
	for _, vt := range []ValueType{ULongLong, LongLong, Float, Double} {
		for _, text := range []string{"-1", "18446744073709551616", "2.5", "-1e+400"} {
			v := RequireValue(text)
			assert.True(t, Cast(v, vt).Equal(v), "cast %s to %s", text, vt)
		}
	}
}

func TestCastIsIdempotent(t *testing.T) {
	values := []string{"0", "1", "-1", "127", "128", "-129", "65535", "4294967297", "-9.75", "1e+20"}
	for _, vt := range ValueTypes() {
		for _, text := range values {
			once := Cast(RequireValue(text), vt)
			assert.True(t, Cast(once, vt).Equal(once), "cast %s to %s twice", text, vt)
			if vt.Integral() && vt.ByteWidth() <= 4 {
				assert.True(t, vt.InBounds(once), "cast %s to %s is out of bounds", text, vt)
			}
		}
	}
}

func TestCastPreservesInBoundsIntegers(t *testing.T) {
	for _, vt := range ValueTypes() {
		min, max := vt.Bounds()
		for _, v := range []Value{min.Value, max.Value, NewValue(0)} {
			if !vt.InBounds(v) {
				continue
			}
			assert.True(t, Cast(v, vt).Equal(v), "cast %s to %s", v, vt)
		}
	}
	assert.True(t, Cast(NewValue(100), Char).Equal(NewValue(100)))
}

func TestUnknownCastPanics(t *testing.T) {
	assert.Panics(t, func() { Cast(NewValue(1), ValueType(NumValueTypes)) })
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("-0.5")
	require.NoError(t, err)
	assert.True(t, v.Equal(RequireValue("-1").Div(NewValue(2))))

	_, err = ParseValue("0x10")
	assert.Error(t, err)
	assert.Panics(t, func() { RequireValue("ten") })
}

func TestValueFromRat(t *testing.T) {
	assert.Equal(t, "18446744073709551615", ValueFromRat(new(big.Rat).SetFrac(
		new(big.Int).SetUint64(18446744073709551615), big.NewInt(1))).String())
	assert.Equal(t, "-2.5", ValueFromRat(big.NewRat(-5, 2)).String())
	assert.Equal(t, "0.33333333333333333333", ValueFromRat(big.NewRat(1, 3)).String())
}
