package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/infrastructure/userstore"
	"github.com/Isaksend/credit-score/pkg/auth"
	"github.com/Isaksend/credit-score/pkg/events"
	pkgkafka "github.com/Isaksend/credit-score/pkg/kafka"
)

// fakeAPI records the last request body per path and answers with canned
// responses.
type fakeAPI struct {
	bodies map[string]map[string]any
	auth   map[string]string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{bodies: map[string]map[string]any{}, auth: map[string]string{}}

	mux := http.NewServeMux()
	record := func(r *http.Request) {
		api.auth[r.URL.Path] = r.Header.Get("Authorization")
		if r.Body == nil {
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			api.bodies[r.URL.Path] = body
		}
	}
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		reply(w, http.StatusOK, dto.PredictionResponse{
			CreditScore:        612.5,
			DefaultProbability: 21.4,
			RiskLevel:          "Low",
			Decision:           "APPROVE",
			ScoreRange:         "300-850",
		})
	})
	mux.HandleFunc("POST /predict/batch", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		var req dto.BatchPredictRequest
		raw, _ := json.Marshal(api.bodies[r.URL.Path])
		_ = json.Unmarshal(raw, &req)
		resp := dto.BatchPredictResponse{Total: len(req.Clients)}
		for i := range req.Clients {
			resp.Predictions = append(resp.Predictions, dto.BatchItem{
				Index:  i,
				Result: &dto.PredictionResponse{CreditScore: 600, Decision: "APPROVE"},
			})
			resp.Successful++
		}
		reply(w, http.StatusOK, resp)
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if api.bodies[r.URL.Path]["password"] != "correct horse" {
			reply(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "invalid credentials"})
			return
		}
		reply(w, http.StatusOK, dto.TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 3600})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		reply(w, http.StatusOK, dto.UserResponse{Username: "analyst", Role: "user"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)
	err := app.Run(context.Background(), append([]string{"scorectl"}, args...))
	return out.String(), err
}

func TestPredict_SetFlags(t *testing.T) {
	api, srv := newFakeAPI(t)

	out, err := runApp(t, "", "--server", srv.URL, "--token", "abc",
		"predict", "--set", "INCOME=85000", "--set", "CAT_GAMBLING=High")
	require.NoError(t, err)

	var resp dto.PredictionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 612.5, resp.CreditScore)
	assert.Equal(t, "APPROVE", resp.Decision)

	data, ok := api.bodies["/predict"]["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 85000.0, data["INCOME"])
	assert.Equal(t, "High", data["CAT_GAMBLING"])
	assert.Equal(t, "Bearer abc", api.auth["/predict"])
}

func TestPredict_FileFromStdin(t *testing.T) {
	api, srv := newFakeAPI(t)

	_, err := runApp(t, `{"data": {"INCOME": 50000, "DEBT": 1000}}`,
		"--server", srv.URL, "predict", "--file", "-", "--set", "DEBT=2000")
	require.NoError(t, err)

	data := api.bodies["/predict"]["data"].(map[string]any)
	assert.Equal(t, 50000.0, data["INCOME"])
	assert.Equal(t, 2000.0, data["DEBT"])
}

func TestPredict_YAMLOutput(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := runApp(t, "", "--server", srv.URL, "--format", "yaml", "predict", "--set", "INCOME=1")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "APPROVE", resp["decision"])
	assert.Equal(t, 612.5, resp["credit_score"])
}

func TestPredict_Errors(t *testing.T) {
	_, srv := newFakeAPI(t)

	_, err := runApp(t, "", "--server", srv.URL, "predict", "--set", "INCOME")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAME=VALUE")

	_, err = runApp(t, "", "--server", srv.URL, "--format", "xml", "predict", "--set", "INCOME=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	_, err = runApp(t, "", "--server", srv.URL, "predict", "--slim", "--grpc-addr", "localhost:1")
	require.Error(t, err)
}

func TestLoginAndWhoami(t *testing.T) {
	api, srv := newFakeAPI(t)

	out, err := runApp(t, "correct horse\n", "--server", srv.URL, "login", "-u", "analyst")
	require.NoError(t, err)
	assert.Contains(t, out, `"access_token": "tok"`)
	assert.Equal(t, "analyst", api.bodies["/auth/login"]["username"])

	_, err = runApp(t, "", "--server", srv.URL, "login", "-u", "analyst", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	out, err = runApp(t, "", "--server", srv.URL, "--token", "tok", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "analyst"`)
}

func TestHashPassword(t *testing.T) {
	out, err := runApp(t, "s3cret-pass\n", "hash-password", "-u", "ops", "--role", auth.RoleAdmin)
	require.NoError(t, err)

	store, err := userstore.Parse([]byte(out))
	require.NoError(t, err)
	u, err := store.FindByUsername(context.Background(), "ops")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, u.Role)
	assert.NoError(t, auth.VerifyPassword(u.PasswordHash, "s3cret-pass"))

	_, err = runApp(t, "x\n", "hash-password", "-u", "ops", "--role", "root")
	require.Error(t, err)

	_, err = runApp(t, "", "hash-password", "-u", "ops")
	require.Error(t, err)
}

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, "", "keygen", "--out", dir, "--name", "scoring")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "scoring.pem"))

	priv, err := os.ReadFile(filepath.Join(dir, "scoring.pem"))
	require.NoError(t, err)
	pub, err := os.ReadFile(filepath.Join(dir, "scoring.pub"))
	require.NoError(t, err)

	signer, err := auth.NewJWTService(auth.JWTConfig{PrivateKeyPEM: string(priv)})
	require.NoError(t, err)
	verifier, err := auth.NewJWTService(auth.JWTConfig{PublicKeyPEM: string(pub)})
	require.NoError(t, err)

	tok, err := signer.GenerateToken("ops", []string{auth.RoleAdmin})
	require.NoError(t, err)
	claims, err := verifier.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Username)
}

func TestBatch_GeneratesFromMeans(t *testing.T) {
	api, srv := newFakeAPI(t)

	out, err := runApp(t, "", "--server", srv.URL,
		"batch", "-n", "7", "--seed", "42", "--sample", "2", "--models-dir", "../../models")
	require.NoError(t, err)

	var summary batchSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 7, summary.Successful)
	assert.Len(t, summary.Sample, 2)

	clients, ok := api.bodies["/predict/batch"]["clients"].([]any)
	require.True(t, ok)
	require.Len(t, clients, 7)
	first := clients[0].(map[string]any)
	assert.Contains(t, first, "INCOME")

	_, err = runApp(t, "", "--server", srv.URL, "batch", "-n", "0", "--models-dir", "../../models")
	require.Error(t, err)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 12.5, parseValue("12.5"))
	assert.Equal(t, -3.0, parseValue("-3"))
	assert.Equal(t, "High", parseValue("High"))
	assert.Equal(t, "", parseValue(""))
}

func TestEventPrinter(t *testing.T) {
	var out bytes.Buffer
	cancelled := false
	p := &eventPrinter{
		cmd:   &cli.Command{Writer: &out},
		types: []string{"credit.high_risk.detected"},
		max:   1,
		done:  func() { cancelled = true },
	}

	msg := func(eventType string) pkgkafka.Message {
		data, err := events.Envelope{ID: uuid.New(), Type: eventType, AggregateType: "credit_assessment"}.Marshal()
		require.NoError(t, err)
		return pkgkafka.Message{Value: data}
	}

	require.NoError(t, p.handle(context.Background(), msg("credit.prediction.completed")))
	assert.Zero(t, out.Len())
	assert.False(t, cancelled)

	require.NoError(t, p.handle(context.Background(), msg("credit.high_risk.detected")))
	assert.Contains(t, out.String(), `"type": "credit.high_risk.detected"`)
	assert.True(t, cancelled)

	assert.Error(t, p.handle(context.Background(), pkgkafka.Message{Value: []byte("{")}))
}
