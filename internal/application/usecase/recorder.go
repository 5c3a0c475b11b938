package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/port"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
	"github.com/Isaksend/credit-score/pkg/auth"
	"github.com/Isaksend/credit-score/pkg/observability"
)

// Recorder persists completed predictions to the portfolio log and publishes
// their domain events. Both steps are best effort: failures are logged and
// never fail the prediction.
type Recorder struct {
	portfolio port.PortfolioRepository
	publisher port.EventPublisher
	metrics   *observability.ScoringMetrics
	logger    *slog.Logger
}

// NewRecorder creates a Recorder. A nil portfolio disables the portfolio log
// and a nil publisher disables events; metrics may be nil.
func NewRecorder(
	portfolio port.PortfolioRepository,
	publisher port.EventPublisher,
	metrics *observability.ScoringMetrics,
	logger *slog.Logger,
) *Recorder {
	return &Recorder{
		portfolio: portfolio,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Record handles one successful prediction made on behalf of the caller in ctx.
func (r *Recorder) Record(ctx context.Context, source valueobject.Source, result model.PredictionResult, elapsed time.Duration) {
	r.metrics.RecordPrediction(ctx, source.String(), result.Decision.String(), elapsed)

	assessment, err := model.NewCreditAssessment(source, auth.UsernameFromContext(ctx), result)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create credit assessment", slog.String("error", err.Error()))
		return
	}

	if r.portfolio != nil {
		if err := r.portfolio.Append(ctx, assessment.PortfolioEntry()); err != nil {
			r.logger.WarnContext(ctx, "failed to record prediction in portfolio log",
				slog.String("assessment_id", assessment.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	events := assessment.Drain()
	if r.publisher != nil && len(events) > 0 {
		if err := r.publisher.Publish(ctx, events...); err != nil {
			r.logger.WarnContext(ctx, "failed to publish prediction events",
				slog.String("assessment_id", assessment.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}
}
