package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds all configuration for the scoring service.
type Config struct {
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000" validate:"min=1,max=65535"`
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"9000" validate:"min=1,max=65535"`
	GRPCEnabled bool   `env:"GRPC_ENABLED" envDefault:"false"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`

	GRPCTLSCertFile string `env:"GRPC_TLS_CERT_FILE"`
	GRPCTLSKeyFile  string `env:"GRPC_TLS_KEY_FILE" validate:"required_with=GRPCTLSCertFile"`
	GRPCReflection  bool   `env:"GRPC_REFLECTION" envDefault:"false"`

	ModelsDir       string `env:"MODELS_DIR" envDefault:"models" validate:"required"`
	ModelFormat     string `env:"MODEL_FORMAT" envDefault:"json" validate:"oneof=json onnx"`
	ONNXRuntimePath string `env:"ONNXRUNTIME_SHARED_LIBRARY_PATH"`

	ScoreClamp          bool    `env:"SCORE_CLAMP" envDefault:"true"`
	MaxFeatureMagnitude float64 `env:"MAX_FEATURE_MAGNITUDE" envDefault:"1e12" validate:"gt=0"`
	MaxBatchSize        int     `env:"MAX_BATCH_SIZE" envDefault:"1000" validate:"min=1"`
	BatchWorkers        int     `env:"BATCH_WORKERS" envDefault:"4" validate:"min=1,max=256"`
	MaxBodyBytes        int64   `env:"MAX_BODY_BYTES" envDefault:"10485760" validate:"min=1024"`

	PortfolioEnabled bool   `env:"PORTFOLIO_ENABLED" envDefault:"true"`
	PortfolioFile    string `env:"PORTFOLIO_FILE" envDefault:"portfolio_history.json" validate:"required_if=PortfolioEnabled true"`

	AuthEnabled       bool          `env:"AUTH_ENABLED" envDefault:"true"`
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTPrivateKeyFile string        `env:"JWT_PRIVATE_KEY_FILE"`
	JWTPublicKeyFile  string        `env:"JWT_PUBLIC_KEY_FILE"`
	JWTIssuer         string        `env:"JWT_ISSUER" envDefault:"credit-score"`
	JWTExpiration     time.Duration `env:"JWT_EXPIRATION" envDefault:"30m" validate:"gt=0"`
	UsersFile         string        `env:"USERS_FILE" envDefault:"users.yaml"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimit          float64  `env:"RATE_LIMIT" envDefault:"50" validate:"gte=0"`
	RateBurst          int      `env:"RATE_BURST" envDefault:"100" validate:"gte=0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"scoring.events"`

	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure   bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom is Load with an explicit environment; nil means the process
// environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.AuthEnabled && !c.HasJWTKey() {
		return fmt.Errorf("invalid configuration: AUTH_ENABLED requires JWT_SECRET, JWT_PRIVATE_KEY_FILE or JWT_PUBLIC_KEY_FILE")
	}
	if c.ModelFormat == "onnx" && c.ONNXRuntimePath == "" {
		return fmt.Errorf("invalid configuration: MODEL_FORMAT=onnx requires ONNXRUNTIME_SHARED_LIBRARY_PATH")
	}
	return nil
}

// HasJWTKey reports whether any JWT key material is configured.
func (c *Config) HasJWTKey() bool {
	return c.JWTSecret != "" || c.JWTPrivateKeyFile != "" || c.JWTPublicKeyFile != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// KafkaEnabled reports whether events go to Kafka rather than the log.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
