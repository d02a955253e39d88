package utils

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// SortedKeys returns the keys of a map in ascending order. Solver encodings iterate maps through this so that
// variable declaration order, and with it the produced query, is deterministic.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
