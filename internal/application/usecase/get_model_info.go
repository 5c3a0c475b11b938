package usecase

import (
	"context"
	"maps"
	"time"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/domain/service"
)

// ModelInfo describes how the loaded models were obtained.
type ModelInfo struct {
	LoadedAt     time.Time
	Metadata     map[string]any
	Format       string
	Dir          string
	LabelEncoded bool
}

// GetModelInfo is the use case for describing the loaded models.
type GetModelInfo struct {
	scorer *service.CreditScorer
	info   ModelInfo
}

// NewGetModelInfo creates a new GetModelInfo use case.
func NewGetModelInfo(scorer *service.CreditScorer, info ModelInfo) *GetModelInfo {
	return &GetModelInfo{scorer: scorer, info: info}
}

// Execute returns the model metadata and runtime configuration.
func (uc *GetModelInfo) Execute(_ context.Context) dto.ModelInfoResponse {
	catalog := uc.scorer.Catalog()
	policy := uc.scorer.Policy()

	metadata := maps.Clone(uc.info.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}

	return dto.ModelInfoResponse{
		LoadedAt:        uc.info.LoadedAt,
		Metadata:        metadata,
		ModelFormat:     uc.info.Format,
		ModelsDir:       uc.info.Dir,
		ScoreRange:      uc.scorer.ScoreRange().String(),
		Features:        catalog.Names(),
		SlimFeatures:    uc.scorer.SlimFeatures(),
		FeatureCount:    catalog.Len(),
		ReviewThreshold: policy.ReviewThreshold(),
		RejectThreshold: policy.RejectThreshold(),
		ScoreClamp:      uc.scorer.ClampsScores(),
		LabelEncoded:    uc.info.LabelEncoded,
	}
}
