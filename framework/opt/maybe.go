// Package opt provides an optional value type.
package opt

import "fmt"

// Maybe holds either a value or nothing. The zero value is empty.
type Maybe[V any] struct {
	defined bool
	value   V
}

func Some[V any](value V) Maybe[V] {
	return Maybe[V]{defined: true, value: value}
}

func None[V any]() Maybe[V] { return Maybe[V]{} }

func (m Maybe[V]) IsDefined() bool { return m.defined }

// Value returns the value, or the zero value of V if there is none.
func (m Maybe[V]) Value() V { return m.value }

// OrElse returns the value, or fallback if there is none.
func (m Maybe[V]) OrElse(fallback V) V {
	if !m.defined {
		return fallback
	}
	return m.value
}

// Or returns m if it has a value and other otherwise, so that a chain of Or calls picks the
// first defined value.
func (m Maybe[V]) Or(other Maybe[V]) Maybe[V] {
	if !m.defined {
		return other
	}
	return m
}

// String formats the value with %v, or returns "[none]".
func (m Maybe[V]) String() string {
	if !m.defined {
		return "[none]"
	}
	return fmt.Sprintf("%v", m.value)
}
