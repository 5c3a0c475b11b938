package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFeatureValue marks a supplied feature value outside its valid domain.
	ErrInvalidFeatureValue = errors.New("invalid feature value")

	// ErrFeatureOrderMismatch is returned when pipeline stages disagree on feature order.
	ErrFeatureOrderMismatch = errors.New("feature order mismatch")
)

// InvalidFeatureValue describes one rejected feature.
type InvalidFeatureValue struct {
	Feature string `json:"feature"`
	Value   any    `json:"value,omitempty"`
	Reason  string `json:"reason"`
}

// FeatureValidationError collects every rejected feature of a request.
type FeatureValidationError struct {
	Violations []InvalidFeatureValue
}

func (e *FeatureValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Feature, v.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidFeatureValue, strings.Join(parts, "; "))
}

func (e *FeatureValidationError) Is(target error) bool {
	return target == ErrInvalidFeatureValue
}
