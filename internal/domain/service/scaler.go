package service

import (
	"fmt"
	"math"

	"github.com/Isaksend/credit-score/internal/domain/model"
)

// Scaler applies the standardisation fitted at training time:
// y[i] = (x[i] - mean[i]) / scale[i].
type Scaler struct {
	features []string
	mean     []float64
	scale    []float64
}

// NewScaler validates and creates a Scaler. features is the order the
// parameters were fitted on.
func NewScaler(features []string, mean, scale []float64) (*Scaler, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("scaler has no features")
	}
	if len(mean) != len(features) || len(scale) != len(features) {
		return nil, fmt.Errorf("scaler parameter length mismatch: %d features, %d means, %d scales",
			len(features), len(mean), len(scale))
	}
	for i := range features {
		if math.IsNaN(mean[i]) || math.IsInf(mean[i], 0) {
			return nil, fmt.Errorf("scaler mean for %s is not finite", features[i])
		}
		if scale[i] == 0 || math.IsNaN(scale[i]) || math.IsInf(scale[i], 0) {
			return nil, fmt.Errorf("scaler scale for %s must be finite and non-zero", features[i])
		}
	}

	names := make([]string, len(features))
	for i, f := range features {
		names[i] = model.CanonicalFeatureName(f)
	}
	return &Scaler{
		features: names,
		mean:     append([]float64(nil), mean...),
		scale:    append([]float64(nil), scale...),
	}, nil
}

// Features returns the fitted feature order.
func (s *Scaler) Features() []string {
	return append([]string(nil), s.features...)
}

// Transform scales x into a new slice.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d values, got %d", len(s.mean), len(x))
	}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = (v - s.mean[i]) / s.scale[i]
	}
	return y, nil
}

// OrderedStage is a pipeline stage that consumes features in a fixed order.
type OrderedStage struct {
	Name     string
	Features []string
}

// VerifyFeatureOrder checks that every stage consumes exactly the catalog
// features in catalog order.
func VerifyFeatureOrder(catalog *model.FeatureCatalog, stages ...OrderedStage) error {
	for _, st := range stages {
		if len(st.Features) != catalog.Len() {
			return fmt.Errorf("%w: %s has %d features, catalog has %d",
				ErrFeatureOrderMismatch, st.Name, len(st.Features), catalog.Len())
		}
		for i, f := range st.Features {
			if model.CanonicalFeatureName(f) != catalog.NameAt(i) {
				return fmt.Errorf("%w: %s position %d is %s, catalog expects %s",
					ErrFeatureOrderMismatch, st.Name, i, f, catalog.NameAt(i))
			}
		}
	}
	return nil
}
