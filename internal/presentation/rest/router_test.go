package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/application/usecase"
	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/port"
	"github.com/Isaksend/credit-score/internal/domain/service"
	"github.com/Isaksend/credit-score/internal/infrastructure/portfolio"
	"github.com/Isaksend/credit-score/internal/middleware"
	"github.com/Isaksend/credit-score/pkg/auth"
)

var testFeatures = []string{"INCOME", "DEBT", "R_DEBT_INCOME"}

type stubScoreModel struct{}

func (stubScoreModel) Features() []string { return testFeatures }
func (stubScoreModel) PredictScore(_ context.Context, x []float64) (float64, error) {
	return 600 - 100*x[2], nil
}

// stubRiskModel turns the scaled debt-to-income ratio into the probability.
type stubRiskModel struct{}

func (stubRiskModel) Features() []string { return testFeatures }
func (stubRiskModel) PredictRisk(_ context.Context, x []float64) (int, float64, error) {
	p := min(max(0.1+x[2], 0), 1)
	if p > 0.5 {
		return 1, p, nil
	}
	return 0, p, nil
}

type stubUsers struct{ users map[string]model.User }

func (s stubUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := s.users[username]
	if !ok {
		return model.User{}, port.ErrUserNotFound
	}
	return u, nil
}

type testServer struct {
	handler http.Handler
	jwt     *auth.JWTService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()
	logger := discardLogger()

	catalog, err := model.NewFeatureCatalog(testFeatures, map[string]float64{"INCOME": 100000, "DEBT": 20000, "R_DEBT_INCOME": 0.5})
	require.NoError(t, err)
	scaler, err := service.NewScaler(testFeatures, []float64{100000, 20000, 0.5}, []float64{1, 1, 1})
	require.NoError(t, err)
	scorer, err := service.NewCreditScorer(catalog, scaler, stubScoreModel{}, stubRiskModel{},
		service.WithSlimFeatures([]string{"INCOME", "R_DEBT_INCOME"}))
	require.NoError(t, err)

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "rest-test-signing-key", Issuer: "test", Expiration: time.Hour})
	require.NoError(t, err)

	hash, err := auth.HashPassword("pa55word")
	require.NoError(t, err)
	admin, err := model.NewUser("ops", hash, "admin")
	require.NoError(t, err)
	user, err := model.NewUser("analyst", hash, "user")
	require.NoError(t, err)
	users := stubUsers{users: map[string]model.User{"ops": admin, "analyst": user}}

	repo := portfolio.NewFileRepository(filepath.Join(t.TempDir(), "portfolio_history.json"))
	recorder := usecase.NewRecorder(repo, nil, nil, logger)

	cfg := RouterConfig{
		Health: NewHealthHandler("credit-scoring", "test", logger),
		Auth:   NewAuthHandler(usecase.NewLogin(users, jwtSvc, logger), usecase.NewGetCurrentUser(), 1<<20, logger),
		Scoring: NewScoringHandler(
			usecase.NewPredictClient(scorer, recorder),
			usecase.NewPredictSlim(scorer, recorder),
			usecase.NewPredictBatch(scorer, recorder, nil, 5, 2),
			usecase.NewGetRiskThresholds(scorer),
			usecase.NewGetModelInfo(scorer, usecase.ModelInfo{Format: "json", Dir: "models"}),
			1<<10,
			logger,
		),
		Portfolio: NewPortfolioHandler(usecase.NewListPortfolioClients(repo, logger), usecase.NewGetPortfolioStatistics(repo, logger), logger),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics\n")
		}),
		CORS:   middleware.CORSConfig{AllowedOrigins: []string{"*"}},
		Logger: logger,
	}
	if authEnabled {
		cfg.TokenValidator = jwtSvc
	}
	return &testServer{handler: NewRouter(cfg), jwt: jwtSvc}
}

func (s *testServer) token(t *testing.T, username, role string) string {
	t.Helper()
	tok, err := s.jwt.GenerateToken(username, []string{role})
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[RootResponse](t, rec).Endpoints, "/predict")

	rec = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[HealthResponse](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/statistics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dto.StatisticsResponse](t, rec)
	assert.Equal(t, "REVIEW", stats.RiskThresholds["medium"].Decision)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPost, "/auth/login", `{"username":"ops","password":"pa55word"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[dto.TokenResponse](t, rec)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, 3600, tok.ExpiresIn)

	rec = s.do(t, http.MethodGet, "/auth/me", "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.UserResponse{Username: "ops", Role: "admin"}, decode[dto.UserResponse](t, rec))

	rec = s.do(t, http.MethodPost, "/auth/login", `{"username":"ops","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decode[APIError](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/auth/login", `{"username":"ops"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPredict(t *testing.T) {
	s := newTestServer(t, true)
	tok := s.token(t, "analyst", auth.RoleUser)

	t.Run("requires a token", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/predict", `{"data":{}}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("scores a client", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/predict", `{"data":{"income":150000,"r_debt_income":0.8,"EXTRA":1}}`, tok)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[dto.PredictionResponse](t, rec)
		assert.Equal(t, 570.0, resp.CreditScore)
		assert.Equal(t, 40.0, resp.DefaultProbability)
		assert.Equal(t, "Medium", resp.RiskLevel)
		assert.Equal(t, "REVIEW", resp.Decision)
		assert.Equal(t, []string{"EXTRA"}, resp.IgnoredFeatures)
	})

	t.Run("invalid feature values are 422", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/predict", `{"data":{"INCOME":-1,"DEBT":"many"}}`, tok)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decode[struct {
			Code    string                        `json:"error"`
			Details []service.InvalidFeatureValue `json:"details"`
		}](t, rec)
		assert.Equal(t, "invalid_feature_value", body.Code)
		assert.Len(t, body.Details, 2)
	})

	t.Run("missing data is 422", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/predict", `{}`, tok)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed JSON is 400", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/predict", `{"data":`, tok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPost, "/predict", `{"data":{}} {}`, tok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPost, "/predict", ``, tok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized body is 413", func(t *testing.T) {
		big := `{"data":{"INCOME":1` + strings.Repeat(" ", 2048) + `}}`
		rec := s.do(t, http.MethodPost, "/predict", big, tok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/predict", "", tok)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestPredictSlim(t *testing.T) {
	s := newTestServer(t, true)
	tok := s.token(t, "analyst", auth.RoleUser)

	rec := s.do(t, http.MethodPost, "/predict_slim", `{"INCOME":50000,"DEBT":999999,"R_DEBT_INCOME":1.0}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[dto.PredictionResponse](t, rec)
	assert.Equal(t, "REJECT", resp.Decision)
	assert.Equal(t, 1, resp.DefaultClass)
	assert.Equal(t, []string{"DEBT"}, resp.IgnoredFeatures)

	rec = s.do(t, http.MethodPost, "/predict_slim", `[1,2]`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictBatch(t *testing.T) {
	s := newTestServer(t, true)
	tok := s.token(t, "analyst", auth.RoleUser)

	rec := s.do(t, http.MethodPost, "/predict/batch", `{"clients":[{"INCOME":1},{"INCOME":"x"},{"R_DEBT_INCOME":0.7}]}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[dto.BatchPredictResponse](t, rec)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Successful)
	assert.Equal(t, 1, resp.Failed)
	assert.NotNil(t, resp.Predictions[1].Error)
	assert.Equal(t, 2, resp.Predictions[2].Index)

	rec = s.do(t, http.MethodPost, "/predict/batch", `{"clients":[{"INCOME":80000},"not-a-mapping",{"R_DEBT_INCOME":0.8}]}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decode[dto.BatchPredictResponse](t, rec)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Successful)
	assert.Equal(t, 1, resp.Failed)
	require.NotNil(t, resp.Predictions[1].Error)
	assert.Equal(t, "client must be a JSON object", resp.Predictions[1].Error.Message)

	rec = s.do(t, http.MethodPost, "/predict/batch", `{"clients":[42,[1],null]}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decode[dto.BatchPredictResponse](t, rec)
	assert.Equal(t, 3, resp.Failed)

	rec = s.do(t, http.MethodPost, "/predict/batch", `{"clients":[{},{},{},{},{},{}]}`, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_batch_size", decode[APIError](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/predict/batch", `{"clients":[]}`, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestModelInfo_AdminOnly(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/model-info", "", s.token(t, "analyst", auth.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/model-info", "", s.token(t, "ops", auth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[dto.ModelInfoResponse](t, rec)
	assert.Equal(t, 3, info.FeatureCount)
	assert.Equal(t, "json", info.ModelFormat)
}

func TestPortfolio(t *testing.T) {
	s := newTestServer(t, true)
	tok := s.token(t, "analyst", auth.RoleUser)

	rec := s.do(t, http.MethodGet, "/portfolio/statistics", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[dto.PortfolioStatisticsResponse](t, rec)
	assert.Equal(t, 0, empty.Count)
	assert.Nil(t, empty.AvgScore)
	assert.Equal(t, dto.NoPortfolioDataMessage, empty.Message)

	for _, body := range []string{`{"data":{}}`, `{"data":{"R_DEBT_INCOME":0.8}}`, `{"data":{"R_DEBT_INCOME":2}}`} {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/predict", body, tok).Code)
	}

	rec = s.do(t, http.MethodGet, "/portfolio/clients?limit=2", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	clients := decode[dto.PortfolioClientsResponse](t, rec)
	assert.Equal(t, 2, clients.Count)
	assert.Equal(t, "analyst", clients.Clients[0].Username)
	assert.Equal(t, "REVIEW", clients.Clients[0].Result.Decision)

	rec = s.do(t, http.MethodGet, "/portfolio/clients?limit=abc", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, "/portfolio/clients?limit=-3", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/portfolio/statistics", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dto.PortfolioStatisticsResponse](t, rec)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 33.33, stats.DecisionDistribution["APPROVE"], 0.001)
	assert.Equal(t, []string{"0-20", "20-40", "40-60", "60-80", "80-100"}, stats.DefaultProbabilityHistogram.Bins)
	assert.Equal(t, []int{1, 0, 1, 0, 1}, stats.DefaultProbabilityHistogram.Counts)
}

func TestAuthDisabled(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/predict", `{"data":{}}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/model-info", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_FailingCheck(t *testing.T) {
	h := NewHealthHandler("credit-scoring", "test", discardLogger(), ReadinessCheck{
		Name:  "portfolio",
		Check: func(context.Context) error { return errors.New("read-only filesystem") },
	})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[ReadinessResponse](t, rec)
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "read-only filesystem", resp.Checks["portfolio"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/predict", bytes.NewReader(nil))
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
