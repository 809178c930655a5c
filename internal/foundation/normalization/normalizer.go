// Package normalization maps loosely written configuration strings onto
// typed enum values.
package normalization

import (
	"slices"
	"strings"

	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
)

// Normalizer maps case-insensitive, whitespace-trimmed keys to values of T.
type Normalizer[T comparable] struct {
	name     string
	values   map[string]T
	fallback T
	keys     []string
}

// New creates a normalizer named name (used in error messages). Unknown
// input normalizes to fallback.
func New[T comparable](name string, values map[string]T, fallback T) *Normalizer[T] {
	n := &Normalizer[T]{
		name:     name,
		values:   make(map[string]T, len(values)),
		fallback: fallback,
		keys:     make([]string, 0, len(values)),
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the fallback.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.fallback
}

// Parse returns the value for raw. Empty input yields the fallback; any
// other unknown input is a validation error listing the accepted keys.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	key := clean(raw)
	if key == "" {
		return n.fallback, nil
	}
	if v, ok := n.values[key]; ok {
		return v, nil
	}
	var zero T
	return zero, foundationerrors.ValidationError("invalid "+n.name).
		WithContext("value", raw).
		WithContext("valid", strings.Join(n.keys, ", ")).
		Build()
}

// Keys lists the accepted keys in sorted order.
func (n *Normalizer[T]) Keys() []string { return slices.Clone(n.keys) }

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
