package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/port"
	"github.com/Isaksend/credit-score/internal/domain/service"
)

// ErrInvalidLimit is returned for a negative page limit.
var ErrInvalidLimit = errors.New("limit must not be negative")

// ListPortfolioClients is the use case for reading the prediction history.
type ListPortfolioClients struct {
	repo   port.PortfolioRepository
	logger *slog.Logger
}

// NewListPortfolioClients creates a new ListPortfolioClients use case. A nil
// repo means the portfolio log is disabled.
func NewListPortfolioClients(repo port.PortfolioRepository, logger *slog.Logger) *ListPortfolioClients {
	return &ListPortfolioClients{repo: repo, logger: logger}
}

// Execute returns recorded predictions, the most recent limit when limit > 0.
// An unreadable log yields an empty response rather than an error.
func (uc *ListPortfolioClients) Execute(ctx context.Context, limit int) (dto.PortfolioClientsResponse, error) {
	if limit < 0 {
		return dto.PortfolioClientsResponse{}, ErrInvalidLimit
	}

	entries := loadPortfolio(ctx, uc.repo, limit, uc.logger)
	if len(entries) == 0 {
		return dto.PortfolioClientsResponse{
			Clients: []dto.PortfolioEntryResponse{},
			Message: dto.NoPortfolioDataMessage,
		}, nil
	}

	clients := make([]dto.PortfolioEntryResponse, 0, len(entries))
	for _, e := range entries {
		clients = append(clients, dto.FromPortfolioEntry(e))
	}
	return dto.PortfolioClientsResponse{Clients: clients, Count: len(clients)}, nil
}

// GetPortfolioStatistics is the use case for aggregating the prediction history.
type GetPortfolioStatistics struct {
	repo   port.PortfolioRepository
	logger *slog.Logger
}

// NewGetPortfolioStatistics creates a new GetPortfolioStatistics use case.
func NewGetPortfolioStatistics(repo port.PortfolioRepository, logger *slog.Logger) *GetPortfolioStatistics {
	return &GetPortfolioStatistics{repo: repo, logger: logger}
}

// Execute aggregates the whole portfolio log.
func (uc *GetPortfolioStatistics) Execute(ctx context.Context) dto.PortfolioStatisticsResponse {
	ctx, span := tracer.Start(ctx, "GetPortfolioStatistics")
	defer span.End()

	entries := loadPortfolio(ctx, uc.repo, 0, uc.logger)
	return dto.FromPortfolioStatistics(service.AggregatePortfolio(entries))
}

func loadPortfolio(ctx context.Context, repo port.PortfolioRepository, limit int, logger *slog.Logger) []model.PortfolioEntry {
	if repo == nil {
		return nil
	}
	entries, err := repo.List(ctx, limit)
	if err != nil {
		logger.WarnContext(ctx, "portfolio log unreadable, returning empty portfolio",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return entries
}
