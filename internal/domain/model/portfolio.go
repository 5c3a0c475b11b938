package model

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioEntry is a persisted snapshot of one prediction. Numeric fields are
// pointers because historic records may lack them.
type PortfolioEntry struct {
	ID                 uuid.UUID
	RecordedAt         time.Time
	Source             string
	Username           string
	CreditScore        *float64
	DefaultProbability *float64
	DefaultClass       *int
	RiskLevel          string
	Decision           string
	ScoreRange         string
}

// HistogramBin is one labelled bucket of a histogram.
type HistogramBin struct {
	Label string
	Count int
}

// PortfolioStatistics summarises a sequence of portfolio entries.
type PortfolioStatistics struct {
	Count                 int
	AvgScore              *float64
	AvgDefaultProbability *float64
	// RiskDistribution and DecisionDistribution hold percentages keyed by
	// category name, one key per known category.
	RiskDistribution     map[string]float64
	DecisionDistribution map[string]float64
	ScoreHistogram       []HistogramBin
	ProbabilityHistogram []HistogramBin
}
