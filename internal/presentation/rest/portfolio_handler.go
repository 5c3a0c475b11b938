package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Isaksend/credit-score/internal/application/usecase"
)

// PortfolioHandler serves the prediction history endpoints.
type PortfolioHandler struct {
	list   *usecase.ListPortfolioClients
	stats  *usecase.GetPortfolioStatistics
	logger *slog.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(list *usecase.ListPortfolioClients, stats *usecase.GetPortfolioStatistics, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{list: list, stats: stats, logger: logger}
}

// RegisterRoutes registers portfolio endpoints on the provided ServeMux.
func (h *PortfolioHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /portfolio/clients", h.Clients)
	mux.HandleFunc("GET /portfolio/statistics", h.Statistics)
}

// Clients lists recorded predictions; ?limit=N keeps the most recent N.
func (h *PortfolioHandler) Clients(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer", nil)
			return
		}
		limit = n
	}

	resp, err := h.list.Execute(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Statistics aggregates the prediction history.
func (h *PortfolioHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.Execute(r.Context()))
}
