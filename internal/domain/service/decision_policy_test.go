package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

func TestDecisionPolicyBoundaries(t *testing.T) {
	policy := DefaultDecisionPolicy()

	tests := []struct {
		probability float64
		level       valueobject.RiskLevel
		decision    valueobject.Decision
	}{
		{0, valueobject.RiskLevelLow, valueobject.DecisionApprove},
		{0.2999, valueobject.RiskLevelLow, valueobject.DecisionApprove},
		{0.30, valueobject.RiskLevelMedium, valueobject.DecisionReview},
		{0.4999, valueobject.RiskLevelMedium, valueobject.DecisionReview},
		{0.50, valueobject.RiskLevelHigh, valueobject.DecisionReject},
		{0.80, valueobject.RiskLevelHigh, valueobject.DecisionReject},
		{1, valueobject.RiskLevelHigh, valueobject.DecisionReject},
	}

	for _, tt := range tests {
		level, decision := policy.Evaluate(tt.probability)
		assert.True(t, level.Equal(tt.level), "p=%v level=%s", tt.probability, level)
		assert.True(t, decision.Equal(tt.decision), "p=%v decision=%s", tt.probability, decision)
	}
}

func TestDecisionPolicyTiers(t *testing.T) {
	tiers := DefaultDecisionPolicy().Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, 0.30, tiers[0].Max)
	assert.Equal(t, 0.30, tiers[1].Min)
	assert.Equal(t, 0.50, tiers[2].Min)
	assert.Equal(t, "REJECT", tiers[2].Decision.String())
}

func TestNewDecisionPolicy(t *testing.T) {
	p, err := NewDecisionPolicy(0.2, 0.6)
	require.NoError(t, err)
	_, d := p.Evaluate(0.5)
	assert.Equal(t, valueobject.DecisionReview, d)

	_, err = NewDecisionPolicy(0.6, 0.2)
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 612.35, Round2(612.345))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 41.27, Round2(41.2700001))

	for _, v := range []float64{0.125, 33.333333, 799.995, 1e-9} {
		once := Round2(v)
		assert.Equal(t, once, Round2(once), "re-rounding must be stable for %v", v)
	}
}

func TestLabelEncoder(t *testing.T) {
	e := newTestEncoder()
	code, err := e.Encode("Low")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	code, err = e.Encode(" no ")
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	_, err = e.Encode("Maybe")
	assert.Error(t, err)

	assert.True(t, e.Handles("CAT_GAMBLING"))
	assert.True(t, e.Handles("CAT_GAMBLING_ENCODED"))
	assert.False(t, e.Handles("CAT_DEBT"))

	_, err = NewLabelEncoder("A", "B", []string{"x", "x"})
	assert.Error(t, err)
}
