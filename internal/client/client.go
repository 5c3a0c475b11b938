// Package client is a typed HTTP client for the credit scoring API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Isaksend/credit-score/internal/application/dto"
)

const defaultTimeout = 30 * time.Second

// Error is a non-2xx API response.
type Error struct {
	Details    json.RawMessage `json:"details,omitempty"`
	Code       string          `json:"error"`
	Message    string          `json:"message"`
	StatusCode int             `json:"-"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("scoring api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("scoring api: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client calls the scoring API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (dto.TokenResponse, error) {
	var out dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Username: username, Password: password}, &out)
	return out, err
}

// Me describes the authenticated caller.
func (c *Client) Me(ctx context.Context) (dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out, err
}

// Predict scores one client.
func (c *Client) Predict(ctx context.Context, data map[string]any) (dto.PredictionResponse, error) {
	var out dto.PredictionResponse
	err := c.do(ctx, http.MethodPost, "/predict", dto.PredictRequest{Data: data}, &out)
	return out, err
}

// PredictSlim scores one client from the slim feature set.
func (c *Client) PredictSlim(ctx context.Context, data map[string]any) (dto.PredictionResponse, error) {
	var out dto.PredictionResponse
	err := c.do(ctx, http.MethodPost, "/predict_slim", data, &out)
	return out, err
}

// PredictBatch scores several clients.
func (c *Client) PredictBatch(ctx context.Context, clients []map[string]any) (dto.BatchPredictResponse, error) {
	items := make([]any, len(clients))
	for i, client := range clients {
		items[i] = client
	}
	var out dto.BatchPredictResponse
	err := c.do(ctx, http.MethodPost, "/predict/batch", dto.BatchPredictRequest{Clients: items}, &out)
	return out, err
}

// Statistics returns the decision thresholds and score range.
func (c *Client) Statistics(ctx context.Context) (dto.StatisticsResponse, error) {
	var out dto.StatisticsResponse
	err := c.do(ctx, http.MethodGet, "/statistics", nil, &out)
	return out, err
}

// ModelInfo returns model metadata. Requires the admin role.
func (c *Client) ModelInfo(ctx context.Context) (dto.ModelInfoResponse, error) {
	var out dto.ModelInfoResponse
	err := c.do(ctx, http.MethodGet, "/model-info", nil, &out)
	return out, err
}

// PortfolioClients lists recorded predictions, the most recent limit when limit > 0.
func (c *Client) PortfolioClients(ctx context.Context, limit int) (dto.PortfolioClientsResponse, error) {
	path := "/portfolio/clients"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out dto.PortfolioClientsResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// PortfolioStatistics aggregates recorded predictions.
func (c *Client) PortfolioStatistics(ctx context.Context) (dto.PortfolioStatisticsResponse, error) {
	var out dto.PortfolioStatisticsResponse
	err := c.do(ctx, http.MethodGet, "/portfolio/statistics", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
