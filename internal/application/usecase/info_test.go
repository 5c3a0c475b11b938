package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaksend/credit-score/internal/application/usecase"
)

func TestGetRiskThresholds_Execute(t *testing.T) {
	resp := usecase.NewGetRiskThresholds(newTestScorer(nil, nil)).Execute(context.Background())

	require.Len(t, resp.RiskThresholds, 3)

	low := resp.RiskThresholds["low"]
	assert.Equal(t, "APPROVE", low.Decision)
	assert.Nil(t, low.MinDefaultProbability)
	require.NotNil(t, low.MaxDefaultProbability)
	assert.Equal(t, 30.0, *low.MaxDefaultProbability)

	medium := resp.RiskThresholds["medium"]
	assert.Equal(t, "REVIEW", medium.Decision)
	assert.Equal(t, 30.0, *medium.MinDefaultProbability)
	assert.Equal(t, 50.0, *medium.MaxDefaultProbability)

	high := resp.RiskThresholds["high"]
	assert.Equal(t, "REJECT", high.Decision)
	assert.Equal(t, 50.0, *high.MinDefaultProbability)
	assert.Nil(t, high.MaxDefaultProbability)

	assert.Equal(t, 300.0, resp.ScoreRange.Min)
	assert.Equal(t, 800.0, resp.ScoreRange.Max)
	assert.True(t, resp.ScoreRange.Clamped)
}

func TestGetModelInfo_Execute(t *testing.T) {
	loaded := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	meta := map[string]any{"model_version": "1.0.0"}
	uc := usecase.NewGetModelInfo(newTestScorer(nil, nil), usecase.ModelInfo{
		LoadedAt: loaded,
		Metadata: meta,
		Format:   "json",
		Dir:      "models",
	})

	resp := uc.Execute(context.Background())
	assert.Equal(t, testFeatures, resp.Features)
	assert.Equal(t, 4, resp.FeatureCount)
	assert.Equal(t, []string{"INCOME", "DEBT"}, resp.SlimFeatures)
	assert.Equal(t, 0.3, resp.ReviewThreshold)
	assert.Equal(t, 0.5, resp.RejectThreshold)
	assert.Equal(t, "300-800", resp.ScoreRange)
	assert.Equal(t, "json", resp.ModelFormat)
	assert.Equal(t, loaded, resp.LoadedAt)
	assert.Equal(t, "1.0.0", resp.Metadata["model_version"])

	resp.Metadata["model_version"] = "mutated"
	assert.Equal(t, "1.0.0", meta["model_version"])
}
