package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Isaksend/credit-score/internal/application/usecase"
	"github.com/Isaksend/credit-score/internal/infrastructure/config"
	"github.com/Isaksend/credit-score/internal/middleware"
	grpcpresentation "github.com/Isaksend/credit-score/internal/presentation/grpc"
	"github.com/Isaksend/credit-score/internal/presentation/rest"
	"github.com/Isaksend/credit-score/pkg/observability"
)

const serviceName = "credit-scoring"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("scoringd exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
		Version: version,
	})

	logger.Info("starting scoringd",
		slog.Int("http_port", cfg.HTTPPort),
		slog.Bool("grpc_enabled", cfg.GRPCEnabled),
		slog.String("environment", cfg.Environment),
		slog.String("model_format", cfg.ModelFormat),
	)

	// Tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", slog.String("error", err.Error()))
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracer(flushCtx)
	}()

	// Metrics.
	var (
		metricsHandler http.Handler
		scoringMetrics *observability.ScoringMetrics
	)
	if cfg.MetricsEnabled {
		provider, handler, err := observability.InitMetrics(observability.MetricsConfig{
			ServiceName:    serviceName,
			ServiceVersion: version,
		})
		if err != nil {
			return err
		}
		defer func() { _ = provider.Shutdown(context.Background()) }()
		scoringMetrics, err = observability.NewScoringMetrics(provider)
		if err != nil {
			return err
		}
		metricsHandler = handler
	}

	// Models. Any artifact problem is fatal.
	models, err := loadScorer(cfg, logger)
	if err != nil {
		return err
	}
	defer models.Close()

	// Portfolio log and events.
	repo := newPortfolio(cfg, logger)
	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	// Auth.
	authn, err := newAuthenticator(cfg, logger)
	if err != nil {
		return err
	}

	// Use cases.
	recorder := usecase.NewRecorder(repo, publisher, scoringMetrics, logger)
	predictUC := usecase.NewPredictClient(models.scorer, recorder)
	batchUC := usecase.NewPredictBatch(models.scorer, recorder, scoringMetrics, cfg.MaxBatchSize, cfg.BatchWorkers)
	portfolioStatsUC := usecase.NewGetPortfolioStatistics(repo, logger)

	var loginUC *usecase.Login
	if authn.jwt != nil && authn.users != nil {
		loginUC = usecase.NewLogin(authn.users, authn.jwt, logger)
	}

	// HTTP server.
	routerCfg := rest.RouterConfig{
		Health: rest.NewHealthHandler(serviceName, version, logger, readinessChecks(cfg)...),
		Auth:   rest.NewAuthHandler(loginUC, usecase.NewGetCurrentUser(), cfg.MaxBodyBytes, logger),
		Scoring: rest.NewScoringHandler(
			predictUC,
			usecase.NewPredictSlim(models.scorer, recorder),
			batchUC,
			usecase.NewGetRiskThresholds(models.scorer),
			usecase.NewGetModelInfo(models.scorer, models.info),
			cfg.MaxBodyBytes,
			logger,
		),
		Portfolio:      rest.NewPortfolioHandler(usecase.NewListPortfolioClients(repo, logger), portfolioStatsUC, logger),
		Metrics:        metricsHandler,
		CORS:           middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
		ScoringMetrics: scoringMetrics,
		Logger:         logger,
	}
	if cfg.AuthEnabled {
		routerCfg.TokenValidator = authn.jwt
	} else {
		logger.Warn("authentication disabled, all endpoints are public")
	}
	if cfg.RateLimit > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, logger)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           rest.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 2)

	// gRPC server.
	var grpcServer *grpcpresentation.Server
	if cfg.GRPCEnabled {
		grpcCfg := grpcpresentation.ServerConfig{
			TLSCertFile: cfg.GRPCTLSCertFile,
			TLSKeyFile:  cfg.GRPCTLSKeyFile,
			Reflection:  cfg.GRPCReflection,
		}
		if cfg.AuthEnabled {
			grpcCfg.JWT = authn.jwt
		}
		grpcServer, err = grpcpresentation.NewServer(
			grpcpresentation.NewScoringHandler(predictUC, batchUC, portfolioStatsUC, logger),
			grpcCfg,
			logger,
		)
		if err != nil {
			return err
		}
		go func() {
			if err := grpcServer.Serve(cfg.GRPCAddress()); err != nil {
				errCh <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", slog.String("error", runErr.Error()))
	}

	// Graceful shutdown.
	logger.Info("shutting down scoringd")
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("scoringd stopped")
	return runErr
}
