package rest

import (
	"log/slog"
	"net/http"

	"github.com/Isaksend/credit-score/internal/middleware"
	"github.com/Isaksend/credit-score/pkg/auth"
	"github.com/Isaksend/credit-score/pkg/observability"
)

// PublicPaths bypass bearer authentication.
var PublicPaths = []string{"/", "/health", "/healthz", "/readyz", "/metrics", "/auth/login", "/statistics"}

// RouterConfig wires handlers and cross-cutting concerns into one http.Handler.
type RouterConfig struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Scoring   *ScoringHandler
	Portfolio *PortfolioHandler

	// Metrics serves /metrics when set.
	Metrics http.Handler
	// TokenValidator enables bearer authentication when set.
	TokenValidator middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter
	CORS           middleware.CORSConfig
	ScoringMetrics *observability.ScoringMetrics
	Logger         *slog.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authEnabled := cfg.TokenValidator != nil
	cfg.Health.RegisterRoutes(mux)
	cfg.Auth.RegisterRoutes(mux)
	cfg.Scoring.RegisterRoutes(mux, middleware.RequireRole(authEnabled, auth.RoleAdmin))
	cfg.Portfolio.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	chain := []func(http.Handler) http.Handler{
		middleware.Recoverer(cfg.Logger),
		middleware.RequestID,
		middleware.LoggingMiddleware(cfg.Logger, mux, cfg.ScoringMetrics),
		middleware.CORS(cfg.CORS),
	}
	if authEnabled {
		chain = append(chain, middleware.AuthMiddleware(cfg.TokenValidator, PublicPaths))
	}
	if cfg.RateLimiter != nil {
		chain = append(chain, middleware.RateLimitMiddleware(cfg.RateLimiter))
	}

	return middleware.Chain(mux, chain...)
}
