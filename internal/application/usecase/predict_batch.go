package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
	"github.com/Isaksend/credit-score/pkg/observability"
)

// ErrInvalidBatchSize is returned for empty or oversized batches.
var ErrInvalidBatchSize = errors.New("invalid batch size")

// PredictBatch is the use case for scoring many clients in one request. Items
// are scored independently: a failing item is reported inline and never
// aborts the batch.
type PredictBatch struct {
	scorer   *service.CreditScorer
	recorder *Recorder
	metrics  *observability.ScoringMetrics
	maxSize  int
	workers  int
}

// NewPredictBatch creates a new PredictBatch use case.
func NewPredictBatch(
	scorer *service.CreditScorer,
	recorder *Recorder,
	metrics *observability.ScoringMetrics,
	maxSize, workers int,
) *PredictBatch {
	if workers < 1 {
		workers = 1
	}
	return &PredictBatch{
		scorer:   scorer,
		recorder: recorder,
		metrics:  metrics,
		maxSize:  maxSize,
		workers:  workers,
	}
}

// Execute scores every client and returns results in request order.
func (uc *PredictBatch) Execute(ctx context.Context, source valueobject.Source, req dto.BatchPredictRequest) (dto.BatchPredictResponse, error) {
	n := len(req.Clients)
	if n == 0 || (uc.maxSize > 0 && n > uc.maxSize) {
		return dto.BatchPredictResponse{}, fmt.Errorf("%w: got %d clients, allowed 1..%d", ErrInvalidBatchSize, n, uc.maxSize)
	}

	ctx, span := tracer.Start(ctx, "PredictBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("scoring.batch_size", n))
	uc.metrics.RecordBatch(ctx, n)

	items := make([]dto.BatchItem, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, client := range req.Clients {
		g.Go(func() error {
			items[i] = uc.scoreOne(gctx, source, i, client)
			return nil
		})
	}
	_ = g.Wait()

	resp := dto.BatchPredictResponse{
		Total:       n,
		Predictions: items,
	}
	for _, item := range items {
		if item.Error != nil {
			resp.Failed++
		} else {
			resp.Successful++
		}
	}
	span.SetAttributes(attribute.Int("scoring.batch_failed", resp.Failed))

	return resp, nil
}

func (uc *PredictBatch) scoreOne(ctx context.Context, source valueobject.Source, index int, item any) dto.BatchItem {
	client, ok := item.(map[string]any)
	if !ok || client == nil {
		return dto.BatchItem{Index: index, Error: &dto.BatchItemError{Message: "client must be a JSON object"}}
	}

	start := time.Now()
	result, err := uc.scorer.Predict(ctx, client)
	if err != nil {
		item := dto.BatchItem{Index: index, Error: &dto.BatchItemError{Message: err.Error()}}
		var verr *service.FeatureValidationError
		if errors.As(err, &verr) {
			item.Error.Violations = verr.Violations
		}
		return item
	}

	uc.recorder.Record(ctx, source, result, time.Since(start))

	resp := dto.FromPrediction(result)
	return dto.BatchItem{Index: index, Result: &resp}
}

// MaxSize returns the largest accepted batch.
func (uc *PredictBatch) MaxSize() int { return uc.maxSize }
