package utils

import "math/big"

// ConstrainIntegerToBounds takes a provided big integer and minimum/maximum bounds (inclusive) and wraps the integer
// around into that range, the way a native machine integer overflows or underflows.
// Returns the constrained integer.
func ConstrainIntegerToBounds(b *big.Int, min *big.Int, max *big.Int) *big.Int {
	// The width of the range is the modulus we wrap by.
	boundingRange := new(big.Int).Sub(max, min)
	boundingRange.Add(boundingRange, big.NewInt(1))

	// Shift into [0, range), reduce with a euclidean modulus (always non-negative), then shift back.
	offset := new(big.Int).Sub(b, min)
	offset.Mod(offset, boundingRange)
	return offset.Add(offset, min)
}

// ConstrainIntegerToBitLength takes a provided big integer, signed indicator, and bit length and wraps the integer
// into the two's complement range of that width. In effect, this simulates a native integer cast.
// Returns the constrained integer.
func ConstrainIntegerToBitLength(b *big.Int, signed bool, bitLength int) *big.Int {
	min, max := GetIntegerConstraints(signed, bitLength)
	return ConstrainIntegerToBounds(b, min, max)
}

// GetIntegerConstraints takes a given signed indicator and bit length for a prospective integer and determines the
// minimum/maximum value boundaries. Minimums and maximums are inclusive.
func GetIntegerConstraints(signed bool, bitLength int) (*big.Int, *big.Int) {
	var min, max *big.Int
	if signed {
		// max = 2^(bitLen - 1) - 1, min = -(2^(bitLen - 1))
		max = new(big.Int).Lsh(big.NewInt(1), uint(bitLength-1))
		min = new(big.Int).Neg(max)
		max.Sub(max, big.NewInt(1))
	} else {
		// max = 2^bitLen - 1, min = 0
		max = new(big.Int).Lsh(big.NewInt(1), uint(bitLength))
		max.Sub(max, big.NewInt(1))
		min = big.NewInt(0)
	}
	return min, max
}
