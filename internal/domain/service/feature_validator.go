package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Isaksend/credit-score/internal/domain/model"
)

// DefaultMaxFeatureMagnitude bounds the absolute value of any supplied feature.
const DefaultMaxFeatureMagnitude = 1e12

var binaryFeatures = map[string]struct{}{
	"CAT_DEBT":            {},
	"CAT_CREDIT_CARD":     {},
	"CAT_MORTGAGE":        {},
	"CAT_SAVINGS_ACCOUNT": {},
}

type featureKind int

const (
	kindOther featureKind = iota
	kindAmount
	kindRatio
	kindBinary
	kindCategorical
)

func kindOf(name string) featureKind {
	switch {
	case name == "INCOME" || name == "SAVINGS" || name == "DEBT" || strings.HasPrefix(name, "T_"):
		return kindAmount
	case strings.HasPrefix(name, "R_"):
		return kindRatio
	case strings.HasPrefix(name, "CAT_"):
		if _, ok := binaryFeatures[name]; ok {
			return kindBinary
		}
		return kindCategorical
	default:
		return kindOther
	}
}

// FeatureValidator turns decoded request values into a ClientInput,
// rejecting values outside each feature's domain.
type FeatureValidator struct {
	catalog      *model.FeatureCatalog
	encoder      *LabelEncoder
	maxMagnitude float64
}

// NewFeatureValidator creates a FeatureValidator. encoder may be nil.
// A non-positive maxMagnitude selects DefaultMaxFeatureMagnitude.
func NewFeatureValidator(catalog *model.FeatureCatalog, encoder *LabelEncoder, maxMagnitude float64) *FeatureValidator {
	if maxMagnitude <= 0 {
		maxMagnitude = DefaultMaxFeatureMagnitude
	}
	return &FeatureValidator{catalog: catalog, encoder: encoder, maxMagnitude: maxMagnitude}
}

// Normalize validates raw and returns the canonical input together with the
// original keys that were ignored because they are unknown or outside
// allowed. A nil allowed set admits every catalog feature. JSON null values
// count as not supplied.
func (v *FeatureValidator) Normalize(raw map[string]any, allowed map[string]struct{}) (model.ClientInput, []string, error) {
	values := make(map[string]float64, len(raw))
	var ignored []string
	var violations []InvalidFeatureValue

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		if value == nil {
			continue
		}

		name := model.CanonicalFeatureName(key)
		if v.encoder != nil && v.encoder.SourceFeature() != "" && name == v.encoder.SourceFeature() {
			name = v.encoder.TargetFeature()
		}

		if !v.catalog.Contains(name) {
			ignored = append(ignored, key)
			continue
		}
		if allowed != nil {
			if _, ok := allowed[name]; !ok {
				ignored = append(ignored, key)
				continue
			}
		}

		f, reason := v.convert(name, value)
		if reason == "" {
			reason = v.check(name, f)
		}
		if reason != "" {
			violations = append(violations, InvalidFeatureValue{Feature: key, Value: value, Reason: reason})
			continue
		}

		if prev, dup := values[name]; dup && prev != f {
			violations = append(violations, InvalidFeatureValue{
				Feature: key,
				Value:   value,
				Reason:  fmt.Sprintf("conflicts with another key for %s", name),
			})
			continue
		}
		values[name] = f
	}

	if len(violations) > 0 {
		return model.ClientInput{}, ignored, &FeatureValidationError{Violations: violations}
	}
	return model.NewClientInput(values), ignored, nil
}

func (v *FeatureValidator) convert(name string, value any) (float64, string) {
	switch x := value.(type) {
	case float64:
		return x, ""
	case float32:
		return float64(x), ""
	case int:
		return float64(x), ""
	case int64:
		return float64(x), ""
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, "not a number"
		}
		return f, ""
	case bool:
		if kindOf(name) != kindBinary {
			return 0, "must be a number"
		}
		if x {
			return 1, ""
		}
		return 0, ""
	case string:
		if v.encoder != nil && v.encoder.Handles(name) {
			code, err := v.encoder.Encode(x)
			if err != nil {
				return 0, err.Error()
			}
			return float64(code), ""
		}
		return 0, "must be a number"
	default:
		return 0, fmt.Sprintf("unsupported type %T", value)
	}
}

func (v *FeatureValidator) check(name string, f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "must be finite"
	}
	if math.Abs(f) > v.maxMagnitude {
		return fmt.Sprintf("magnitude exceeds %g", v.maxMagnitude)
	}

	switch kindOf(name) {
	case kindAmount, kindRatio:
		if f < 0 {
			return "must not be negative"
		}
	case kindBinary:
		if f != 0 && f != 1 {
			return "must be 0 or 1"
		}
	case kindCategorical:
		if f < 0 || f != math.Trunc(f) {
			return "must be a non-negative integer"
		}
		if v.encoder != nil && name == v.encoder.TargetFeature() && int(f) >= v.encoder.Len() {
			return fmt.Sprintf("must be below %d", v.encoder.Len())
		}
	}
	return ""
}
