package common

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Set builds a membership set from a slice.
func Set[S ~[]E, E comparable](s S) map[E]struct{} {
	out := make(map[E]struct{}, len(s))
	for _, e := range s {
		out[e] = struct{}{}
	}

	return out
}
