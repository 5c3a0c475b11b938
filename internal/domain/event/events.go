package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Isaksend/credit-score/pkg/events"
)

const (
	// AggregateTypeCreditAssessment names the aggregate emitting scoring events.
	AggregateTypeCreditAssessment = "CreditAssessment"

	// EventTypePredictionCompleted is emitted for every recorded prediction.
	EventTypePredictionCompleted = "credit.prediction.completed"

	// EventTypeHighRiskDetected is emitted when a prediction is rejected.
	EventTypeHighRiskDetected = "credit.high_risk.detected"
)

// PredictionCompletedData is the payload of PredictionCompleted.
type PredictionCompletedData struct {
	AssessmentID       uuid.UUID `json:"assessment_id"`
	Source             string    `json:"source"`
	Username           string    `json:"username"`
	CreditScore        float64   `json:"credit_score"`
	DefaultProbability float64   `json:"default_probability"`
	DefaultClass       int       `json:"default_class"`
	RiskLevel          string    `json:"risk_level"`
	Decision           string    `json:"decision"`
	CompletedAt        time.Time `json:"completed_at"`
}

// PredictionCompleted is published when a client has been scored.
type PredictionCompleted struct {
	events.BaseEvent
	Data PredictionCompletedData
}

// NewPredictionCompleted creates a PredictionCompleted event.
func NewPredictionCompleted(data PredictionCompletedData) PredictionCompleted {
	payload, _ := json.Marshal(data)
	return PredictionCompleted{
		BaseEvent: events.NewBaseEventAt(EventTypePredictionCompleted, data.AssessmentID, AggregateTypeCreditAssessment, payload, data.CompletedAt),
		Data:      data,
	}
}

// HighRiskDetectedData is the payload of HighRiskDetected.
type HighRiskDetectedData struct {
	AssessmentID       uuid.UUID `json:"assessment_id"`
	Username           string    `json:"username"`
	DefaultProbability float64   `json:"default_probability"`
	CreditScore        float64   `json:"credit_score"`
	DetectedAt         time.Time `json:"detected_at"`
}

// HighRiskDetected is published when a prediction ends in REJECT.
type HighRiskDetected struct {
	events.BaseEvent
	Data HighRiskDetectedData
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(data HighRiskDetectedData) HighRiskDetected {
	payload, _ := json.Marshal(data)
	return HighRiskDetected{
		BaseEvent: events.NewBaseEventAt(EventTypeHighRiskDetected, data.AssessmentID, AggregateTypeCreditAssessment, payload, data.DetectedAt),
		Data:      data,
	}
}
