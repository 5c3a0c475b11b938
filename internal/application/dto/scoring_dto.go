package dto

import (
	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/service"
)

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Data map[string]any `json:"data" validate:"required"`
}

// BatchPredictRequest is the body of POST /predict/batch. Items stay untyped
// so that one item that is not an object fails alone.
type BatchPredictRequest struct {
	Clients []any `json:"clients" validate:"required,min=1"`
}

// PredictionResponse is the output DTO for one scored client.
type PredictionResponse struct {
	RiskLevel          string   `json:"risk_level"`
	Decision           string   `json:"decision"`
	ScoreRange         string   `json:"score_range"`
	IgnoredFeatures    []string `json:"ignored_features,omitempty"`
	CreditScore        float64  `json:"credit_score"`
	DefaultProbability float64  `json:"default_probability"`
	DefaultClass       int      `json:"default_class"`
}

// BatchItemError describes why one batch item failed.
type BatchItemError struct {
	Message    string                        `json:"message"`
	Violations []service.InvalidFeatureValue `json:"violations,omitempty"`
}

// BatchItem holds either the result or the error for one client, by index.
type BatchItem struct {
	Result *PredictionResponse `json:"result,omitempty"`
	Error  *BatchItemError     `json:"error,omitempty"`
	Index  int                 `json:"index"`
}

// BatchPredictResponse is the output DTO for a batch prediction.
type BatchPredictResponse struct {
	Predictions []BatchItem `json:"predictions"`
	Total       int         `json:"total"`
	Successful  int         `json:"successful"`
	Failed      int         `json:"failed"`
}

// FromPrediction maps a domain prediction to the response DTO.
func FromPrediction(r model.PredictionResult) PredictionResponse {
	return PredictionResponse{
		CreditScore:        r.CreditScore,
		DefaultProbability: r.DefaultProbability,
		DefaultClass:       r.DefaultClass,
		RiskLevel:          r.RiskLevel.String(),
		Decision:           r.Decision.String(),
		ScoreRange:         r.ScoreRange.String(),
		IgnoredFeatures:    r.IgnoredFeatures,
	}
}
