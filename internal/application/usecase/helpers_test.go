package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/pkg/events"
)

// --- Mock implementations ---

var testFeatures = []string{"INCOME", "DEBT", "R_DEBT_INCOME", "CAT_DEBT"}

var testDefaults = map[string]float64{"INCOME": 100000, "DEBT": 50000, "R_DEBT_INCOME": 0.5, "CAT_DEBT": 1}

type mockScoreModel struct {
	predictFunc func(ctx context.Context, x []float64) (float64, error)
}

func (m *mockScoreModel) Features() []string { return testFeatures }

func (m *mockScoreModel) PredictScore(ctx context.Context, x []float64) (float64, error) {
	if m.predictFunc != nil {
		return m.predictFunc(ctx, x)
	}
	return 600, nil
}

// mockRiskModel maps the scaled debt-to-income ratio onto a probability so
// tests can steer the decision through input data.
type mockRiskModel struct {
	predictFunc func(ctx context.Context, x []float64) (int, float64, error)
}

func (m *mockRiskModel) Features() []string { return testFeatures }

func (m *mockRiskModel) PredictRisk(ctx context.Context, x []float64) (int, float64, error) {
	if m.predictFunc != nil {
		return m.predictFunc(ctx, x)
	}
	p := 0.1 + x[2]
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	class := 0
	if p > 0.5 {
		class = 1
	}
	return class, p, nil
}

type mockPortfolioRepository struct {
	mu         sync.Mutex
	entries    []model.PortfolioEntry
	appendFunc func(ctx context.Context, entry model.PortfolioEntry) error
	listFunc   func(ctx context.Context, limit int) ([]model.PortfolioEntry, error)
}

func (m *mockPortfolioRepository) Append(ctx context.Context, entry model.PortfolioEntry) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockPortfolioRepository) List(ctx context.Context, limit int) ([]model.PortfolioEntry, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.PortfolioEntry(nil), m.entries...)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		types = append(types, e.EventType())
	}
	return types
}

type mockTokenIssuer struct {
	generateFunc func(username string, roles []string) (string, error)
}

func (m *mockTokenIssuer) GenerateToken(username string, roles []string) (string, error) {
	if m.generateFunc != nil {
		return m.generateFunc(username, roles)
	}
	return "token-for-" + username, nil
}

func (m *mockTokenIssuer) Expiration() time.Duration { return 30 * time.Minute }

// --- Fixtures ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScorer(score *mockScoreModel, risk *mockRiskModel) *service.CreditScorer {
	catalog, err := model.NewFeatureCatalog(testFeatures, testDefaults)
	if err != nil {
		panic(err)
	}
	mean := make([]float64, len(testFeatures))
	scale := make([]float64, len(testFeatures))
	for i, f := range testFeatures {
		mean[i] = testDefaults[f]
		scale[i] = 1
	}
	scaler, err := service.NewScaler(testFeatures, mean, scale)
	if err != nil {
		panic(err)
	}
	if score == nil {
		score = &mockScoreModel{}
	}
	if risk == nil {
		risk = &mockRiskModel{}
	}
	s, err := service.NewCreditScorer(catalog, scaler, score, risk,
		service.WithSlimFeatures([]string{"INCOME", "DEBT"}),
	)
	if err != nil {
		panic(err)
	}
	return s
}
