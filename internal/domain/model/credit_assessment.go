package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Isaksend/credit-score/internal/domain/event"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
	"github.com/Isaksend/credit-score/pkg/events"
)

// CreditAssessment is the aggregate root for one scored client. Creating it
// records the domain events describing the outcome.
type CreditAssessment struct {
	events.Collector

	recordedAt time.Time
	source     valueobject.Source
	username   string
	result     PredictionResult
	id         uuid.UUID
}

// NewCreditAssessment creates an assessment for a completed prediction.
func NewCreditAssessment(source valueobject.Source, username string, result PredictionResult) (*CreditAssessment, error) {
	if source.IsZero() {
		return nil, fmt.Errorf("prediction source is required")
	}
	if result.Decision.IsZero() || result.RiskLevel.IsZero() {
		return nil, fmt.Errorf("prediction result is incomplete")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = "anonymous"
	}

	a := &CreditAssessment{
		id:         uuid.New(),
		recordedAt: time.Now().UTC(),
		source:     source,
		username:   username,
		result:     result,
	}

	a.Record(event.NewPredictionCompleted(event.PredictionCompletedData{
		AssessmentID:       a.id,
		Source:             source.String(),
		Username:           username,
		CreditScore:        result.CreditScore,
		DefaultProbability: result.DefaultProbability,
		DefaultClass:       result.DefaultClass,
		RiskLevel:          result.RiskLevel.String(),
		Decision:           result.Decision.String(),
		CompletedAt:        a.recordedAt,
	}))

	if result.Decision.IsRejected() {
		a.Record(event.NewHighRiskDetected(event.HighRiskDetectedData{
			AssessmentID:       a.id,
			Username:           username,
			DefaultProbability: result.DefaultProbability,
			CreditScore:        result.CreditScore,
			DetectedAt:         a.recordedAt,
		}))
	}

	return a, nil
}

// --- Accessors ---

func (a *CreditAssessment) ID() uuid.UUID              { return a.id }
func (a *CreditAssessment) RecordedAt() time.Time      { return a.recordedAt }
func (a *CreditAssessment) Source() valueobject.Source { return a.source }
func (a *CreditAssessment) Username() string           { return a.username }
func (a *CreditAssessment) Result() PredictionResult   { return a.result }

// PortfolioEntry snapshots the assessment for the portfolio log.
func (a *CreditAssessment) PortfolioEntry() PortfolioEntry {
	score := a.result.CreditScore
	prob := a.result.DefaultProbability
	class := a.result.DefaultClass
	return PortfolioEntry{
		ID:                 a.id,
		RecordedAt:         a.recordedAt,
		Source:             a.source.String(),
		Username:           a.username,
		CreditScore:        &score,
		DefaultProbability: &prob,
		DefaultClass:       &class,
		RiskLevel:          a.result.RiskLevel.String(),
		Decision:           a.result.Decision.String(),
		ScoreRange:         a.result.ScoreRange.String(),
	}
}
