package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/port"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

// DefaultSlimFeatures is the reduced feature set accepted by slim predictions
// when model metadata does not declare one.
var DefaultSlimFeatures = []string{
	"R_DEBT_INCOME", "DEBT", "INCOME", "R_EXPENDITURE", "SAVINGS", "R_SAVINGS_INCOME",
	"R_GROCERIES", "R_HOUSING", "T_EXPENDITURE_12", "R_GAMBLING", "T_HOUSING_12", "T_GROCERIES_12",
	"CAT_DEBT", "CAT_CREDIT_CARD", "CAT_MORTGAGE", "CAT_SAVINGS_ACCOUNT", "CAT_DEPENDENTS",
	"CAT_GAMBLING_ENCODED",
}

// ScorerOption customises a CreditScorer.
type ScorerOption func(*CreditScorer)

// WithScoreClamp enables or disables clamping credit scores to the score range.
func WithScoreClamp(clamp bool) ScorerOption {
	return func(s *CreditScorer) { s.clamp = clamp }
}

// WithDecisionPolicy replaces the canonical decision policy.
func WithDecisionPolicy(p DecisionPolicy) ScorerOption {
	return func(s *CreditScorer) { s.policy = p }
}

// WithLabelEncoder lets requests supply the encoded categorical as a label.
func WithLabelEncoder(e *LabelEncoder) ScorerOption {
	return func(s *CreditScorer) { s.encoder = e }
}

// WithMaxFeatureMagnitude bounds supplied feature values.
func WithMaxFeatureMagnitude(m float64) ScorerOption {
	return func(s *CreditScorer) { s.maxMagnitude = m }
}

// WithSlimFeatures sets the feature subset used by slim predictions.
func WithSlimFeatures(names []string) ScorerOption {
	return func(s *CreditScorer) { s.slim = names }
}

// CreditScorer runs the full scoring pipeline: validate, assemble, scale,
// infer and decide. It holds no mutable state and is safe for concurrent use.
type CreditScorer struct {
	catalog      *model.FeatureCatalog
	scaler       *Scaler
	scoreModel   port.ScoreModel
	riskModel    port.RiskModel
	policy       DecisionPolicy
	scoreRange   valueobject.ScoreRange
	clamp        bool
	encoder      *LabelEncoder
	maxMagnitude float64
	slim         []string

	validator *FeatureValidator
	assembler *VectorAssembler
}

// NewCreditScorer wires the pipeline and verifies that the catalog, scaler and
// both models agree on feature order.
func NewCreditScorer(
	catalog *model.FeatureCatalog,
	scaler *Scaler,
	scoreModel port.ScoreModel,
	riskModel port.RiskModel,
	opts ...ScorerOption,
) (*CreditScorer, error) {
	if catalog == nil || scaler == nil || scoreModel == nil || riskModel == nil {
		return nil, fmt.Errorf("credit scorer requires catalog, scaler and both models")
	}

	s := &CreditScorer{
		catalog:    catalog,
		scaler:     scaler,
		scoreModel: scoreModel,
		riskModel:  riskModel,
		policy:     DefaultDecisionPolicy(),
		scoreRange: valueobject.DefaultScoreRange,
		clamp:      true,
		slim:       DefaultSlimFeatures,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := VerifyFeatureOrder(catalog,
		OrderedStage{Name: "scaler", Features: scaler.Features()},
		OrderedStage{Name: "credit score model", Features: scoreModel.Features()},
		OrderedStage{Name: "default risk model", Features: riskModel.Features()},
	); err != nil {
		return nil, err
	}

	if s.encoder != nil && !catalog.Contains(s.encoder.TargetFeature()) {
		return nil, fmt.Errorf("label encoder target %s is not a catalog feature", s.encoder.TargetFeature())
	}

	slim := make([]string, 0, len(s.slim))
	for _, name := range s.slim {
		canon := model.CanonicalFeatureName(name)
		if !catalog.Contains(canon) {
			return nil, fmt.Errorf("slim feature %s is not a catalog feature", canon)
		}
		slim = append(slim, canon)
	}
	s.slim = slim

	s.validator = NewFeatureValidator(catalog, s.encoder, s.maxMagnitude)
	s.assembler = NewVectorAssembler(catalog)
	return s, nil
}

func (s *CreditScorer) Catalog() *model.FeatureCatalog     { return s.catalog }
func (s *CreditScorer) Policy() DecisionPolicy             { return s.policy }
func (s *CreditScorer) ScoreRange() valueobject.ScoreRange { return s.scoreRange }
func (s *CreditScorer) ClampsScores() bool                 { return s.clamp }

// SlimFeatures returns the slim feature subset.
func (s *CreditScorer) SlimFeatures() []string {
	return append([]string(nil), s.slim...)
}

// Predict scores one client from a full or partial feature mapping.
func (s *CreditScorer) Predict(ctx context.Context, raw map[string]any) (model.PredictionResult, error) {
	return s.predict(ctx, raw, nil)
}

// PredictSubset scores one client using only the allowed features; every
// other supplied key is ignored and its position takes the catalog default.
func (s *CreditScorer) PredictSubset(ctx context.Context, raw map[string]any, allowed []string) (model.PredictionResult, error) {
	set := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		set[model.CanonicalFeatureName(name)] = struct{}{}
	}
	return s.predict(ctx, raw, set)
}

func (s *CreditScorer) predict(ctx context.Context, raw map[string]any, allowed map[string]struct{}) (model.PredictionResult, error) {
	in, ignored, err := s.validator.Normalize(raw, allowed)
	if err != nil {
		return model.PredictionResult{}, err
	}

	scaled, err := s.scaler.Transform(s.assembler.Assemble(in))
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("failed to scale features: %w", err)
	}

	score, err := s.scoreModel.PredictScore(ctx, scaled)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("credit score model: %w", err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return model.PredictionResult{}, fmt.Errorf("credit score model returned non-finite score")
	}

	class, probability, err := s.riskModel.PredictRisk(ctx, scaled)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("default risk model: %w", err)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return model.PredictionResult{}, fmt.Errorf("default risk model returned probability %v outside [0,1]", probability)
	}

	level, decision := s.policy.Evaluate(probability)
	if s.clamp {
		score = s.scoreRange.Clamp(score)
	}

	return model.PredictionResult{
		CreditScore:        Round2(score),
		DefaultProbability: Round2(probability * 100),
		DefaultClass:       class,
		RiskLevel:          level,
		Decision:           decision,
		ScoreRange:         s.scoreRange,
		IgnoredFeatures:    ignored,
	}, nil
}
