package model

import (
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

// PredictionResult is the outcome of scoring one client.
type PredictionResult struct {
	// CreditScore is rounded to two decimals.
	CreditScore float64
	// DefaultProbability is a percentage in [0,100], rounded to two decimals.
	DefaultProbability float64
	DefaultClass       int
	RiskLevel          valueobject.RiskLevel
	Decision           valueobject.Decision
	ScoreRange         valueobject.ScoreRange
	// IgnoredFeatures lists supplied keys that were not used, sorted.
	IgnoredFeatures []string
}
