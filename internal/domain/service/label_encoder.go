package service

import (
	"fmt"
	"strings"

	"github.com/Isaksend/credit-score/internal/domain/model"
)

// LabelEncoder maps the categories of one string feature to the integer codes
// the models were trained on. Codes are positions in the class list.
type LabelEncoder struct {
	sourceFeature string
	targetFeature string
	classes       []string
	index         map[string]int
}

// NewLabelEncoder creates a LabelEncoder. sourceFeature is the raw categorical
// name (e.g. CAT_GAMBLING) and targetFeature the encoded catalog feature.
func NewLabelEncoder(sourceFeature, targetFeature string, classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label encoder has no classes")
	}
	target := model.CanonicalFeatureName(targetFeature)
	if target == "" {
		return nil, fmt.Errorf("label encoder target feature is required")
	}
	e := &LabelEncoder{
		sourceFeature: model.CanonicalFeatureName(sourceFeature),
		targetFeature: target,
		classes:       append([]string(nil), classes...),
		index:         make(map[string]int, len(classes)),
	}
	for i, c := range classes {
		if _, dup := e.index[c]; dup {
			return nil, fmt.Errorf("label encoder: duplicate class %q", c)
		}
		e.index[c] = i
	}
	return e, nil
}

func (e *LabelEncoder) SourceFeature() string { return e.sourceFeature }
func (e *LabelEncoder) TargetFeature() string { return e.targetFeature }
func (e *LabelEncoder) Len() int              { return len(e.classes) }

// Classes returns a copy of the class labels.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Encode returns the code for label. An exact match wins over a
// case-insensitive one.
func (e *LabelEncoder) Encode(label string) (int, error) {
	if i, ok := e.index[label]; ok {
		return i, nil
	}
	trimmed := strings.TrimSpace(label)
	for i, c := range e.classes {
		if strings.EqualFold(c, trimmed) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q, expected one of %v", label, e.classes)
}

// Handles reports whether the canonical feature name is encoded by e.
func (e *LabelEncoder) Handles(name string) bool {
	return name == e.targetFeature || (e.sourceFeature != "" && name == e.sourceFeature)
}
