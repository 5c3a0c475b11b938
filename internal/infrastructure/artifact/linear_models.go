package artifact

import (
	"context"
	"fmt"
	"math"

	"github.com/Isaksend/credit-score/internal/domain/model"
)

type linearFile struct {
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

type linear struct {
	features     []string
	coefficients []float64
	intercept    float64
}

func newLinear(f linearFile) (linear, error) {
	if len(f.Features) == 0 {
		return linear{}, fmt.Errorf("no features")
	}
	if len(f.Coefficients) != len(f.Features) {
		return linear{}, fmt.Errorf("%d coefficients for %d features", len(f.Coefficients), len(f.Features))
	}
	for i, c := range f.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return linear{}, fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(f.Intercept) || math.IsInf(f.Intercept, 0) {
		return linear{}, fmt.Errorf("intercept is not finite")
	}
	names := make([]string, len(f.Features))
	for i, n := range f.Features {
		names[i] = model.CanonicalFeatureName(n)
	}
	return linear{features: names, coefficients: f.Coefficients, intercept: f.Intercept}, nil
}

func (l linear) decision(x []float64) (float64, error) {
	if len(x) != len(l.coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(l.coefficients), len(x))
	}
	z := l.intercept
	for i, v := range x {
		z += l.coefficients[i] * v
	}
	return z, nil
}

// LinearScoreModel is a linear regression exported as coefficients.
type LinearScoreModel struct {
	linear
}

func (m *LinearScoreModel) Features() []string {
	return append([]string(nil), m.features...)
}

// PredictScore returns intercept + coefficients . scaled.
func (m *LinearScoreModel) PredictScore(_ context.Context, scaled []float64) (float64, error) {
	return m.decision(scaled)
}

// LogisticRiskModel is a binary logistic regression exported as coefficients.
type LogisticRiskModel struct {
	linear
}

func (m *LogisticRiskModel) Features() []string {
	return append([]string(nil), m.features...)
}

// PredictRisk returns the positive-class probability and the class label,
// which is 1 when the probability exceeds 0.5.
func (m *LogisticRiskModel) PredictRisk(_ context.Context, scaled []float64) (int, float64, error) {
	z, err := m.decision(scaled)
	if err != nil {
		return 0, 0, err
	}
	p := sigmoid(z)
	class := 0
	if p > 0.5 {
		class = 1
	}
	return class, p, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// LoadLinearModels reads the JSON-exported regression and classifier from dir.
func LoadLinearModels(dir string) (*LinearScoreModel, *LogisticRiskModel, error) {
	var lf linearFile
	if err := readJSON(dir, LinearModelFile, "credit score model", &lf); err != nil {
		return nil, nil, err
	}
	score, err := newLinear(lf)
	if err != nil {
		return nil, nil, loadErr("credit score model", dir, LinearModelFile, err)
	}

	var rf linearFile
	if err := readJSON(dir, LogisticModelFile, "default risk model", &rf); err != nil {
		return nil, nil, err
	}
	risk, err := newLinear(rf)
	if err != nil {
		return nil, nil, loadErr("default risk model", dir, LogisticModelFile, err)
	}

	return &LinearScoreModel{linear: score}, &LogisticRiskModel{linear: risk}, nil
}
