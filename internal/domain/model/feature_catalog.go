package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrMissingCatalogEntry is returned when a declared feature has no default.
var ErrMissingCatalogEntry = errors.New("missing catalog entry")

// CanonicalFeatureName normalises a feature key for catalog lookup.
func CanonicalFeatureName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// FeatureCatalog is the authoritative ordered list of model input features
// and their population means. It is immutable once constructed.
type FeatureCatalog struct {
	names    []string
	defaults []float64
	index    map[string]int
}

// NewFeatureCatalog builds a catalog from the training-order feature names and
// a name->default mapping. Every name must have a finite default; extra
// defaults are ignored.
func NewFeatureCatalog(names []string, defaults map[string]float64) (*FeatureCatalog, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("feature catalog is empty")
	}

	canonicalDefaults := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		canonicalDefaults[CanonicalFeatureName(k)] = v
	}

	c := &FeatureCatalog{
		names:    make([]string, 0, len(names)),
		defaults: make([]float64, 0, len(names)),
		index:    make(map[string]int, len(names)),
	}

	var missing []string
	for i, raw := range names {
		name := CanonicalFeatureName(raw)
		if name == "" {
			return nil, fmt.Errorf("feature catalog position %d: empty name", i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("feature catalog position %d: duplicate feature %s", i, name)
		}
		def, ok := canonicalDefaults[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if math.IsNaN(def) || math.IsInf(def, 0) {
			return nil, fmt.Errorf("feature catalog: default for %s is not finite", name)
		}
		c.index[name] = len(c.names)
		c.names = append(c.names, name)
		c.defaults = append(c.defaults, def)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCatalogEntry, strings.Join(missing, ", "))
	}

	return c, nil
}

// Len returns the number of features.
func (c *FeatureCatalog) Len() int {
	return len(c.names)
}

// Names returns a copy of the feature names in training order.
func (c *FeatureCatalog) Names() []string {
	return slices.Clone(c.names)
}

// Defaults returns a copy of the defaults in training order.
func (c *FeatureCatalog) Defaults() []float64 {
	return slices.Clone(c.defaults)
}

// NameAt returns the feature name at position i.
func (c *FeatureCatalog) NameAt(i int) string {
	return c.names[i]
}

// DefaultAt returns the default at position i.
func (c *FeatureCatalog) DefaultAt(i int) float64 {
	return c.defaults[i]
}

// Default returns the population mean for name.
func (c *FeatureCatalog) Default(name string) (float64, bool) {
	i, ok := c.index[CanonicalFeatureName(name)]
	if !ok {
		return 0, false
	}
	return c.defaults[i], true
}

// Index returns the position of name in the catalog.
func (c *FeatureCatalog) Index(name string) (int, bool) {
	i, ok := c.index[CanonicalFeatureName(name)]
	return i, ok
}

// Contains reports whether name is a catalog feature.
func (c *FeatureCatalog) Contains(name string) bool {
	_, ok := c.index[CanonicalFeatureName(name)]
	return ok
}
