package service

import (
	"fmt"

	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

// Canonical decision thresholds on the probability of default.
const (
	DefaultReviewThreshold = 0.30
	DefaultRejectThreshold = 0.50
)

// DecisionPolicy maps a probability of default to a risk tier and decision.
type DecisionPolicy struct {
	reviewThreshold float64
	rejectThreshold float64
}

// DefaultDecisionPolicy returns the policy with the canonical 0.30/0.50 thresholds.
func DefaultDecisionPolicy() DecisionPolicy {
	return DecisionPolicy{reviewThreshold: DefaultReviewThreshold, rejectThreshold: DefaultRejectThreshold}
}

// NewDecisionPolicy creates a policy with custom thresholds.
func NewDecisionPolicy(review, reject float64) (DecisionPolicy, error) {
	if !(review > 0 && review < reject && reject <= 1) {
		return DecisionPolicy{}, fmt.Errorf("invalid decision thresholds review=%v reject=%v", review, reject)
	}
	return DecisionPolicy{reviewThreshold: review, rejectThreshold: reject}, nil
}

func (p DecisionPolicy) ReviewThreshold() float64 { return p.reviewThreshold }
func (p DecisionPolicy) RejectThreshold() float64 { return p.rejectThreshold }

// Evaluate classifies probability, a value in [0,1].
func (p DecisionPolicy) Evaluate(probability float64) (valueobject.RiskLevel, valueobject.Decision) {
	switch {
	case probability < p.reviewThreshold:
		return valueobject.RiskLevelLow, valueobject.DecisionApprove
	case probability < p.rejectThreshold:
		return valueobject.RiskLevelMedium, valueobject.DecisionReview
	default:
		return valueobject.RiskLevelHigh, valueobject.DecisionReject
	}
}

// PolicyTier is one row of the threshold table, covering [Min, Max).
type PolicyTier struct {
	RiskLevel valueobject.RiskLevel
	Decision  valueobject.Decision
	Min       float64
	Max       float64
}

// Tiers returns the threshold table in ascending order.
func (p DecisionPolicy) Tiers() []PolicyTier {
	return []PolicyTier{
		{RiskLevel: valueobject.RiskLevelLow, Decision: valueobject.DecisionApprove, Min: 0, Max: p.reviewThreshold},
		{RiskLevel: valueobject.RiskLevelMedium, Decision: valueobject.DecisionReview, Min: p.reviewThreshold, Max: p.rejectThreshold},
		{RiskLevel: valueobject.RiskLevelHigh, Decision: valueobject.DecisionReject, Min: p.rejectThreshold, Max: 1},
	}
}
