package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Isaksend/credit-score/internal/domain/model"
)

// NoPortfolioDataMessage accompanies empty portfolio responses.
const NoPortfolioDataMessage = "no portfolio data"

// PortfolioResult mirrors the stored prediction snapshot.
type PortfolioResult struct {
	CreditScore        *float64 `json:"credit_score"`
	DefaultProbability *float64 `json:"default_probability"`
	DefaultClass       *int     `json:"default_class"`
	RiskLevel          string   `json:"risk_level,omitempty"`
	Decision           string   `json:"decision,omitempty"`
	ScoreRange         string   `json:"score_range,omitempty"`
}

// PortfolioEntryResponse is one recorded prediction.
type PortfolioEntryResponse struct {
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	ID        string          `json:"id,omitempty"`
	Source    string          `json:"source,omitempty"`
	Username  string          `json:"username,omitempty"`
	Result    PortfolioResult `json:"result"`
}

// PortfolioClientsResponse is the output of GET /portfolio/clients.
type PortfolioClientsResponse struct {
	Message string                   `json:"message,omitempty"`
	Clients []PortfolioEntryResponse `json:"clients"`
	Count   int                      `json:"count"`
}

// Histogram is a set of labelled bins with their counts.
type Histogram struct {
	Bins   []string `json:"bins"`
	Counts []int    `json:"counts"`
}

// PortfolioStatisticsResponse is the output of GET /portfolio/statistics.
type PortfolioStatisticsResponse struct {
	AvgScore                    *float64           `json:"avg_score"`
	AvgDefaultProbability       *float64           `json:"avg_default_probability"`
	RiskDistribution            map[string]float64 `json:"risk_distribution"`
	DecisionDistribution        map[string]float64 `json:"decision_distribution"`
	Message                     string             `json:"message,omitempty"`
	ScoreHistogram              Histogram          `json:"score_histogram"`
	DefaultProbabilityHistogram Histogram          `json:"default_probability_histogram"`
	Count                       int                `json:"count"`
}

// FromPortfolioEntry maps a stored entry to its response DTO.
func FromPortfolioEntry(e model.PortfolioEntry) PortfolioEntryResponse {
	resp := PortfolioEntryResponse{
		Source:   e.Source,
		Username: e.Username,
		Result: PortfolioResult{
			CreditScore:        e.CreditScore,
			DefaultProbability: e.DefaultProbability,
			DefaultClass:       e.DefaultClass,
			RiskLevel:          e.RiskLevel,
			Decision:           e.Decision,
			ScoreRange:         e.ScoreRange,
		},
	}
	if e.ID != uuid.Nil {
		resp.ID = e.ID.String()
	}
	if !e.RecordedAt.IsZero() {
		ts := e.RecordedAt.UTC()
		resp.Timestamp = &ts
	}
	return resp
}

// FromPortfolioStatistics maps aggregator output to the response DTO.
func FromPortfolioStatistics(s model.PortfolioStatistics) PortfolioStatisticsResponse {
	resp := PortfolioStatisticsResponse{
		Count:                       s.Count,
		AvgScore:                    s.AvgScore,
		AvgDefaultProbability:       s.AvgDefaultProbability,
		RiskDistribution:            s.RiskDistribution,
		DecisionDistribution:        s.DecisionDistribution,
		ScoreHistogram:              fromHistogram(s.ScoreHistogram),
		DefaultProbabilityHistogram: fromHistogram(s.ProbabilityHistogram),
	}
	if s.Count == 0 {
		resp.Message = NoPortfolioDataMessage
	}
	return resp
}

func fromHistogram(bins []model.HistogramBin) Histogram {
	h := Histogram{
		Bins:   make([]string, 0, len(bins)),
		Counts: make([]int, 0, len(bins)),
	}
	for _, b := range bins {
		h.Bins = append(h.Bins, b.Label)
		h.Counts = append(h.Counts, b.Count)
	}
	return h
}
