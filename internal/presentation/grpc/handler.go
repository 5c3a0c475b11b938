package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/application/usecase"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

// ScoringHandler implements ScoringServiceServer on top of the scoring use cases.
type ScoringHandler struct {
	UnimplementedScoringServiceServer

	predict *usecase.PredictClient
	batch   *usecase.PredictBatch
	stats   *usecase.GetPortfolioStatistics
	logger  *slog.Logger
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(
	predict *usecase.PredictClient,
	batch *usecase.PredictBatch,
	stats *usecase.GetPortfolioStatistics,
	logger *slog.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		predict: predict,
		batch:   batch,
		stats:   stats,
		logger:  logger,
	}
}

// Predict scores one client.
func (h *ScoringHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil || req.Data == nil {
		return nil, status.Error(codes.InvalidArgument, "data is required")
	}

	resp, err := h.predict.Execute(ctx, valueobject.SourceGRPC, dto.PredictRequest{Data: req.Data})
	if err != nil {
		return nil, h.toStatus(ctx, "Predict", err)
	}
	return &resp, nil
}

// PredictBatch scores several clients; item failures are reported inline.
func (h *ScoringHandler) PredictBatch(ctx context.Context, req *PredictBatchRequest) (*PredictBatchResponse, error) {
	if req == nil || len(req.Clients) == 0 {
		return nil, status.Error(codes.InvalidArgument, "clients must not be empty")
	}

	resp, err := h.batch.Execute(ctx, valueobject.SourceGRPC, dto.BatchPredictRequest{Clients: req.Clients})
	if err != nil {
		return nil, h.toStatus(ctx, "PredictBatch", err)
	}
	return &resp, nil
}

// GetPortfolioStatistics aggregates the prediction history.
func (h *ScoringHandler) GetPortfolioStatistics(ctx context.Context, _ *GetPortfolioStatisticsRequest) (*GetPortfolioStatisticsResponse, error) {
	resp := h.stats.Execute(ctx)
	return &resp, nil
}

func (h *ScoringHandler) toStatus(ctx context.Context, method string, err error) error {
	var featureErr *service.FeatureValidationError
	switch {
	case errors.As(err, &featureErr):
		return status.Error(codes.InvalidArgument, featureErr.Error())
	case errors.Is(err, usecase.ErrInvalidBatchSize):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "grpc call failed",
			slog.String("method", method),
			slog.String("error", err.Error()),
		)
		return status.Error(codes.Internal, "internal error")
	}
}
