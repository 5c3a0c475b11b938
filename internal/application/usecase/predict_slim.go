package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

// PredictSlim is the use case for scoring a client from the slim feature set.
// Supplied keys outside that set are ignored.
type PredictSlim struct {
	scorer   *service.CreditScorer
	recorder *Recorder
}

// NewPredictSlim creates a new PredictSlim use case.
func NewPredictSlim(scorer *service.CreditScorer, recorder *Recorder) *PredictSlim {
	return &PredictSlim{
		scorer:   scorer,
		recorder: recorder,
	}
}

// Execute scores a flat feature mapping.
func (uc *PredictSlim) Execute(ctx context.Context, data map[string]any) (dto.PredictionResponse, error) {
	ctx, span := tracer.Start(ctx, "PredictSlim")
	defer span.End()

	start := time.Now()
	result, err := uc.scorer.PredictSubset(ctx, data, uc.scorer.SlimFeatures())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prediction failed")
		return dto.PredictionResponse{}, fmt.Errorf("failed to predict: %w", err)
	}

	uc.recorder.Record(ctx, valueobject.SourcePredictSlim, result, time.Since(start))

	return dto.FromPrediction(result), nil
}

// SlimFeatures lists the features this use case reads.
func (uc *PredictSlim) SlimFeatures() []string {
	return uc.scorer.SlimFeatures()
}
