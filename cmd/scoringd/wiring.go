package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Isaksend/credit-score/internal/application/usecase"
	"github.com/Isaksend/credit-score/internal/domain/port"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/internal/infrastructure/artifact"
	"github.com/Isaksend/credit-score/internal/infrastructure/config"
	infrakafka "github.com/Isaksend/credit-score/internal/infrastructure/kafka"
	"github.com/Isaksend/credit-score/internal/infrastructure/messaging"
	"github.com/Isaksend/credit-score/internal/infrastructure/onnx"
	"github.com/Isaksend/credit-score/internal/infrastructure/portfolio"
	"github.com/Isaksend/credit-score/internal/infrastructure/userstore"
	"github.com/Isaksend/credit-score/internal/presentation/rest"
	"github.com/Isaksend/credit-score/pkg/auth"
	pkgkafka "github.com/Isaksend/credit-score/pkg/kafka"
)

type scoringModels struct {
	scorer *service.CreditScorer
	info   usecase.ModelInfo
	close  func() error
}

func (m *scoringModels) Close() {
	if m.close != nil {
		_ = m.close()
	}
}

// loadScorer reads every artifact from MODELS_DIR and builds the one scorer
// shared by all transports.
func loadScorer(cfg *config.Config, logger *slog.Logger) (*scoringModels, error) {
	bundle, err := artifact.Load(cfg.ModelsDir)
	if err != nil {
		return nil, err
	}

	var (
		scoreModel port.ScoreModel
		riskModel  port.RiskModel
		closeFn    func() error
	)
	switch cfg.ModelFormat {
	case "onnx":
		score, risk, err := onnx.LoadModels(cfg.ModelsDir, bundle.TrainingFeatures(), onnx.Options{
			LibraryPath: cfg.ONNXRuntimePath,
		})
		if err != nil {
			return nil, err
		}
		scoreModel, riskModel = score, risk
		closeFn = func() error { return errors.Join(score.Close(), risk.Close()) }
	default:
		score, risk, err := artifact.LoadLinearModels(cfg.ModelsDir)
		if err != nil {
			return nil, err
		}
		scoreModel, riskModel = score, risk
	}

	opts := []service.ScorerOption{
		service.WithScoreClamp(cfg.ScoreClamp),
		service.WithMaxFeatureMagnitude(cfg.MaxFeatureMagnitude),
	}
	if bundle.Encoder != nil {
		opts = append(opts, service.WithLabelEncoder(bundle.Encoder))
	}
	if len(bundle.SlimFeatures) > 0 {
		opts = append(opts, service.WithSlimFeatures(bundle.SlimFeatures))
	}

	scorer, err := service.NewCreditScorer(bundle.Catalog, bundle.Scaler, scoreModel, riskModel, opts...)
	if err != nil {
		if closeFn != nil {
			_ = closeFn()
		}
		return nil, fmt.Errorf("failed to build credit scorer: %w", err)
	}

	logger.Info("models loaded",
		slog.String("dir", cfg.ModelsDir),
		slog.String("format", cfg.ModelFormat),
		slog.Int("features", bundle.Catalog.Len()),
		slog.Bool("label_encoder", bundle.Encoder != nil),
		slog.Bool("score_clamp", cfg.ScoreClamp),
	)

	return &scoringModels{
		scorer: scorer,
		info: usecase.ModelInfo{
			LoadedAt:     time.Now().UTC(),
			Metadata:     bundle.Metadata,
			Format:       cfg.ModelFormat,
			Dir:          cfg.ModelsDir,
			LabelEncoded: bundle.Encoder != nil,
		},
		close: closeFn,
	}, nil
}

func newPortfolio(cfg *config.Config, logger *slog.Logger) port.PortfolioRepository {
	if !cfg.PortfolioEnabled {
		logger.Info("portfolio log disabled")
		return nil
	}
	logger.Info("portfolio log enabled", slog.String("file", cfg.PortfolioFile))
	return portfolio.NewFileRepository(cfg.PortfolioFile)
}

// newPublisher returns the Kafka publisher when brokers are configured and the
// log publisher otherwise.
func newPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if !cfg.KafkaEnabled() {
		logger.Info("kafka not configured, logging domain events")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:  cfg.KafkaBrokers,
		ClientID: serviceName,
		Async:    true,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info("publishing domain events to kafka",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("topic", cfg.KafkaTopic),
	)
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}
	return infrakafka.NewPublisher(producer, cfg.KafkaTopic, logger), closeFn, nil
}

type authenticator struct {
	jwt   *auth.JWTService
	users port.UserStore
}

// newAuthenticator builds the JWT service from configured key material and
// loads the user store. Login stays unavailable without a user store.
func newAuthenticator(cfg *config.Config, logger *slog.Logger) (authenticator, error) {
	var a authenticator

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Expiration: cfg.JWTExpiration,
	}
	if !cfg.HasJWTKey() {
		return a, nil
	}
	if cfg.JWTPrivateKeyFile != "" {
		key, err := auth.LoadKeyFromFile(cfg.JWTPrivateKeyFile)
		if err != nil {
			return a, err
		}
		jwtCfg.PrivateKeyPEM = string(key)
	}
	if cfg.JWTPublicKeyFile != "" {
		key, err := auth.LoadKeyFromFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return a, err
		}
		jwtCfg.PublicKeyPEM = string(key)
	}

	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return a, fmt.Errorf("failed to create JWT service: %w", err)
	}
	a.jwt = jwtSvc
	if !jwtSvc.CanSign() {
		logger.Info("JWT public key only, login disabled")
		return a, nil
	}

	store, err := userstore.Load(cfg.UsersFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("user store not found, login disabled", slog.String("file", cfg.UsersFile))
	case err != nil:
		return a, err
	default:
		logger.Info("user store loaded",
			slog.String("file", cfg.UsersFile),
			slog.Int("users", len(store.Usernames())),
		)
		a.users = store
	}
	return a, nil
}

// readinessChecks reports whether the portfolio directory can take writes. A
// corrupt log does not make the service unready; reads fall back to empty.
func readinessChecks(cfg *config.Config) []rest.ReadinessCheck {
	if !cfg.PortfolioEnabled {
		return nil
	}
	dir := filepath.Dir(cfg.PortfolioFile)
	return []rest.ReadinessCheck{{
		Name: "portfolio",
		Check: func(context.Context) error {
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			return nil
		},
	}}
}
