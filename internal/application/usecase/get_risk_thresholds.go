package usecase

import (
	"context"
	"strings"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

var tierDescriptions = map[string]string{
	valueobject.DecisionApprove.String(): "Low risk - recommended for approval",
	valueobject.DecisionReview.String():  "Medium risk - requires review",
	valueobject.DecisionReject.String():  "High risk - not recommended",
}

// GetRiskThresholds is the use case publishing the decision policy.
type GetRiskThresholds struct {
	scorer *service.CreditScorer
}

// NewGetRiskThresholds creates a new GetRiskThresholds use case.
func NewGetRiskThresholds(scorer *service.CreditScorer) *GetRiskThresholds {
	return &GetRiskThresholds{scorer: scorer}
}

// Execute returns the threshold table in percent, keyed by lower-case risk level.
func (uc *GetRiskThresholds) Execute(_ context.Context) dto.StatisticsResponse {
	tiers := uc.scorer.Policy().Tiers()
	thresholds := make(map[string]dto.ThresholdResponse, len(tiers))
	for i, tier := range tiers {
		t := dto.ThresholdResponse{
			Decision:    tier.Decision.String(),
			Description: tierDescriptions[tier.Decision.String()],
		}
		if i > 0 {
			lo := service.Round2(tier.Min * 100)
			t.MinDefaultProbability = &lo
		}
		if i < len(tiers)-1 {
			hi := service.Round2(tier.Max * 100)
			t.MaxDefaultProbability = &hi
		}
		thresholds[strings.ToLower(tier.RiskLevel.String())] = t
	}

	r := uc.scorer.ScoreRange()
	return dto.StatisticsResponse{
		RiskThresholds: thresholds,
		ScoreRange: dto.ScoreRangeResponse{
			Min:         r.Min(),
			Max:         r.Max(),
			Clamped:     uc.scorer.ClampsScores(),
			Description: "Credit score range",
		},
	}
}
