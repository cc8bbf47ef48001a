package slicesext

import (
	"cmp"
	"maps"
	"slices"
)

func StableSort(s []string) []string {
	return slices.Compact(slices.Sorted(slices.Values(s)))
}

// SortedKeys returns the keys of m in ascending order. It never returns nil.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := slices.Sorted(maps.Keys(m))
	if keys == nil {
		return []K{}
	}
	return keys
}
