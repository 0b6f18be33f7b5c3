package helpers

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// IfElse is a conditional expression.
func IfElse[V any](cond bool, ifTrue, ifFalse V) V {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func SliceContains[V comparable](value V, slice []V) bool {
	return slices.Contains(slice, value)
}

// CopyOf returns a shallow copy of the slice, or nil for a nil slice. Appending to the copy
// never writes into the original.
func CopyOf[V any](slice []V) []V {
	if slice == nil {
		return nil
	}
	return slices.Clip(slices.Clone(slice))
}

// SortedKeys returns the keys of the map in ascending order, for deterministic iteration.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
