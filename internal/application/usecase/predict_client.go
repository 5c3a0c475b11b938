package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

var tracer = otel.Tracer("github.com/Isaksend/credit-score/internal/application/usecase")

// PredictClient is the use case for scoring one client from a full feature mapping.
type PredictClient struct {
	scorer   *service.CreditScorer
	recorder *Recorder
}

// NewPredictClient creates a new PredictClient use case.
func NewPredictClient(scorer *service.CreditScorer, recorder *Recorder) *PredictClient {
	return &PredictClient{
		scorer:   scorer,
		recorder: recorder,
	}
}

// Execute scores the client and records the outcome under source.
func (uc *PredictClient) Execute(ctx context.Context, source valueobject.Source, req dto.PredictRequest) (dto.PredictionResponse, error) {
	ctx, span := tracer.Start(ctx, "PredictClient")
	defer span.End()
	span.SetAttributes(
		attribute.String("scoring.source", source.String()),
		attribute.Int("scoring.supplied_features", len(req.Data)),
	)

	start := time.Now()
	result, err := uc.scorer.Predict(ctx, req.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prediction failed")
		return dto.PredictionResponse{}, fmt.Errorf("failed to predict: %w", err)
	}
	span.SetAttributes(attribute.String("scoring.decision", result.Decision.String()))

	uc.recorder.Record(ctx, source, result, time.Since(start))

	return dto.FromPrediction(result), nil
}
