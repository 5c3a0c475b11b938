package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/application/usecase"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/pkg/auth"
)

// APIError is the JSON body of every error response.
type APIError struct {
	Details any    `json:"details,omitempty"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

var (
	errEmptyBody    = errors.New("request body is empty")
	errTrailingData = errors.New("unexpected data after JSON value")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, APIError{Code: code, Message: message, Details: details})
}

// writeError maps use case and decoding errors to HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		featureErr *service.FeatureValidationError
		reqErr     *dto.ValidationError
		maxBytes   *http.MaxBytesError
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &featureErr):
		writeAPIError(w, http.StatusUnprocessableEntity, "invalid_feature_value", "one or more feature values are invalid", featureErr.Violations)
	case errors.As(err, &reqErr):
		writeAPIError(w, http.StatusUnprocessableEntity, "validation_failed", "request failed validation", reqErr.Fields)
	case errors.Is(err, usecase.ErrInvalidBatchSize):
		writeAPIError(w, http.StatusUnprocessableEntity, "invalid_batch_size", err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidLimit):
		writeAPIError(w, http.StatusBadRequest, "invalid_limit", err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeAPIError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password", nil)
	case errors.Is(err, usecase.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeAPIError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
	case errors.As(err, &maxBytes):
		writeAPIError(w, http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Sprintf("request body exceeds %d bytes", maxBytes.Limit), nil)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, errEmptyBody), errors.Is(err, errTrailingData),
		errors.Is(err, io.ErrUnexpectedEOF):
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeAPIError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred", nil)
	}
}

// decodeJSON reads one JSON value from the capped request body. Numbers are
// kept as json.Number so feature values are not rounded through float64
// twice.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}
