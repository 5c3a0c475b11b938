package service

import (
	"context"
	"errors"

	"github.com/Isaksend/credit-score/internal/domain/model"
)

var testFeatures = []string{
	"INCOME", "SAVINGS", "DEBT", "R_DEBT_INCOME", "T_GROCERIES_12",
	"CAT_DEBT", "CAT_DEPENDENTS", "CAT_GAMBLING_ENCODED",
}

var testDefaults = map[string]float64{
	"INCOME": 120000, "SAVINGS": 400000, "DEBT": 300000, "R_DEBT_INCOME": 3.5,
	"T_GROCERIES_12": 15000, "CAT_DEBT": 1, "CAT_DEPENDENTS": 0, "CAT_GAMBLING_ENCODED": 1,
}

func newTestCatalog() *model.FeatureCatalog {
	c, err := model.NewFeatureCatalog(testFeatures, testDefaults)
	if err != nil {
		panic(err)
	}
	return c
}

func newTestScaler(features []string) *Scaler {
	mean := make([]float64, len(features))
	scale := make([]float64, len(features))
	for i, f := range features {
		mean[i] = testDefaults[f]
		scale[i] = 1
	}
	s, err := NewScaler(features, mean, scale)
	if err != nil {
		panic(err)
	}
	return s
}

func newTestEncoder() *LabelEncoder {
	e, err := NewLabelEncoder("CAT_GAMBLING", "CAT_GAMBLING_ENCODED", []string{"High", "Low", "No"})
	if err != nil {
		panic(err)
	}
	return e
}

// mockScoreModel returns a fixed score, or fn's result when set.
type mockScoreModel struct {
	features []string
	score    float64
	err      error
	fn       func(x []float64) float64
}

func (m *mockScoreModel) Features() []string { return m.features }

func (m *mockScoreModel) PredictScore(_ context.Context, x []float64) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.fn != nil {
		return m.fn(x), nil
	}
	return m.score, nil
}

type mockRiskModel struct {
	features    []string
	probability float64
	err         error
	fn          func(x []float64) float64
}

func (m *mockRiskModel) Features() []string { return m.features }

func (m *mockRiskModel) PredictRisk(_ context.Context, x []float64) (int, float64, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	p := m.probability
	if m.fn != nil {
		p = m.fn(x)
	}
	class := 0
	if p > 0.5 {
		class = 1
	}
	return class, p, nil
}

var errModel = errors.New("model failure")
