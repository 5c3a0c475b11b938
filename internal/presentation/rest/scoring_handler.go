package rest

import (
	"log/slog"
	"net/http"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/application/usecase"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

// ScoringHandler serves the prediction and model description endpoints.
type ScoringHandler struct {
	predict    *usecase.PredictClient
	slim       *usecase.PredictSlim
	batch      *usecase.PredictBatch
	thresholds *usecase.GetRiskThresholds
	modelInfo  *usecase.GetModelInfo
	logger     *slog.Logger
	maxBody    int64
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(
	predict *usecase.PredictClient,
	slim *usecase.PredictSlim,
	batch *usecase.PredictBatch,
	thresholds *usecase.GetRiskThresholds,
	modelInfo *usecase.GetModelInfo,
	maxBody int64,
	logger *slog.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		predict:    predict,
		slim:       slim,
		batch:      batch,
		thresholds: thresholds,
		modelInfo:  modelInfo,
		maxBody:    maxBody,
		logger:     logger,
	}
}

// RegisterRoutes registers scoring endpoints on the provided ServeMux.
// adminOnly wraps handlers restricted to administrators.
func (h *ScoringHandler) RegisterRoutes(mux *http.ServeMux, adminOnly func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("POST /predict_slim", h.PredictSlim)
	mux.HandleFunc("POST /predict/batch", h.PredictBatch)
	mux.HandleFunc("GET /statistics", h.Statistics)
	mux.Handle("GET /model-info", adminOnly(http.HandlerFunc(h.ModelInfo)))
}

// Predict scores one client from {"data": {...}}.
func (h *ScoringHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.predict.Execute(r.Context(), valueobject.SourcePredict, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PredictSlim scores one client from a flat mapping of slim features.
func (h *ScoringHandler) PredictSlim(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := decodeJSON(w, r, h.maxBody, &data); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if data == nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON object", nil)
		return
	}

	resp, err := h.slim.Execute(r.Context(), data)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PredictBatch scores {"clients": [...]}; failing items are reported inline.
func (h *ScoringHandler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchPredictRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.batch.Execute(r.Context(), valueobject.SourceBatch, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Statistics publishes the decision thresholds and score range.
func (h *ScoringHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.thresholds.Execute(r.Context()))
}

// ModelInfo describes the loaded models.
func (h *ScoringHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.modelInfo.Execute(r.Context()))
}
