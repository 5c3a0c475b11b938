package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaksend/credit-score/internal/application/dto"
)

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "://nope"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}
}

func TestClient_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1000.0, req.Data["INCOME"])

		_ = json.NewEncoder(w).Encode(dto.PredictionResponse{CreditScore: 640, Decision: "APPROVE"})
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", WithToken("tok"))
	require.NoError(t, err)

	resp, err := c.Predict(context.Background(), map[string]any{"INCOME": 1000})
	require.NoError(t, err)
	assert.Equal(t, 640.0, resp.CreditScore)
	assert.Equal(t, "APPROVE", resp.Decision)
}

func TestClient_PortfolioClientsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolio/clients", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(dto.PortfolioClientsResponse{Count: 0, Message: dto.NoPortfolioDataMessage})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	resp, err := c.PortfolioClients(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, dto.NoPortfolioDataMessage, resp.Message)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"invalid_feature_value","message":"bad","details":[{"feature":"INCOME","reason":"must not be negative"}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.PredictBatch(context.Background(), []map[string]any{{"INCOME": -1}})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "invalid_feature_value", apiErr.Code)
	assert.Contains(t, string(apiErr.Details), "INCOME")
	assert.Contains(t, apiErr.Error(), "422")
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Statistics(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "scoring api: HTTP 502", apiErr.Error())
}
