package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"JWT_SECRET": "dev-only"})
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, ":8000", cfg.HTTPAddress())
	assert.Equal(t, ":9000", cfg.GRPCAddress())
	assert.Equal(t, "models", cfg.ModelsDir)
	assert.Equal(t, "json", cfg.ModelFormat)
	assert.True(t, cfg.ScoreClamp)
	assert.Equal(t, 1e12, cfg.MaxFeatureMagnitude)
	assert.Equal(t, "portfolio_history.json", cfg.PortfolioFile)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "scoring.events", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"HTTP_PORT":            "8080",
		"AUTH_ENABLED":         "false",
		"SCORE_CLAMP":          "false",
		"KAFKA_BROKERS":        "k1:9092,k2:9092",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"JWT_EXPIRATION":       "1h",
		"ENVIRONMENT":          "Production",
	})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.False(t, cfg.ScoreClamp)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"auth without key material", map[string]string{}},
		{"bad model format", map[string]string{"AUTH_ENABLED": "false", "MODEL_FORMAT": "pickle"}},
		{"onnx without runtime", map[string]string{"AUTH_ENABLED": "false", "MODEL_FORMAT": "onnx"}},
		{"bad port", map[string]string{"AUTH_ENABLED": "false", "HTTP_PORT": "70000"}},
		{"bad log level", map[string]string{"AUTH_ENABLED": "false", "LOG_LEVEL": "verbose"}},
		{"zero workers", map[string]string{"AUTH_ENABLED": "false", "BATCH_WORKERS": "0"}},
		{"unparsable bool", map[string]string{"AUTH_ENABLED": "maybe"}},
		{"tls cert without key", map[string]string{"AUTH_ENABLED": "false", "GRPC_TLS_CERT_FILE": "c.pem"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestLoadAcceptsPublicKeyOnly(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"JWT_PUBLIC_KEY_FILE": "/etc/scoring/jwt.pub"})
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled)
	assert.True(t, cfg.HasJWTKey())
}
