package model

import (
	"maps"
	"slices"
)

// ClientInput is a sparse, validated set of catalog feature values keyed by
// canonical feature name.
type ClientInput struct {
	values map[string]float64
}

// NewClientInput canonicalises keys of values. Callers must resolve
// conflicting keys beforehand; when two keys collapse to one name the
// lexically greatest original key wins.
func NewClientInput(values map[string]float64) ClientInput {
	out := make(map[string]float64, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		out[CanonicalFeatureName(k)] = values[k]
	}
	return ClientInput{values: out}
}

// Value returns the supplied value for name.
func (in ClientInput) Value(name string) (float64, bool) {
	v, ok := in.values[CanonicalFeatureName(name)]
	return v, ok
}

// Len returns the number of supplied features.
func (in ClientInput) Len() int {
	return len(in.values)
}

// Names returns the supplied feature names, sorted.
func (in ClientInput) Names() []string {
	return slices.Sorted(maps.Keys(in.values))
}
