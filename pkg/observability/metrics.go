package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName    string
	ServiceVersion string
}

// InitMetrics initializes the Prometheus metrics exporter on a dedicated
// registry and installs the provider globally.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	return provider, handler, nil
}

// ScoringMetrics records prediction and HTTP instruments. A nil receiver is a
// no-op, so callers may pass nil when metrics are disabled.
type ScoringMetrics struct {
	predictions  metric.Int64Counter
	duration     metric.Float64Histogram
	batchSize    metric.Int64Histogram
	httpRequests metric.Int64Counter
}

// NewScoringMetrics creates the scoring instruments on provider.
func NewScoringMetrics(provider metric.MeterProvider) (*ScoringMetrics, error) {
	meter := provider.Meter("github.com/Isaksend/credit-score")

	predictions, err := meter.Int64Counter("scoring.predictions",
		metric.WithDescription("Completed predictions by decision and source"))
	if err != nil {
		return nil, fmt.Errorf("failed to create predictions counter: %w", err)
	}
	duration, err := meter.Float64Histogram("scoring.prediction.duration",
		metric.WithDescription("Prediction latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	batchSize, err := meter.Int64Histogram("scoring.batch.size",
		metric.WithDescription("Number of clients per batch request"))
	if err != nil {
		return nil, fmt.Errorf("failed to create batch size histogram: %w", err)
	}
	httpRequests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests by route and status"))
	if err != nil {
		return nil, fmt.Errorf("failed to create http counter: %w", err)
	}

	return &ScoringMetrics{
		predictions:  predictions,
		duration:     duration,
		batchSize:    batchSize,
		httpRequests: httpRequests,
	}, nil
}

// RecordPrediction counts one prediction.
func (m *ScoringMetrics) RecordPrediction(ctx context.Context, source, decision string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("decision", decision),
	)
	m.predictions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("source", source)))
}

// RecordBatch records the size of a batch request.
func (m *ScoringMetrics) RecordBatch(ctx context.Context, size int) {
	if m == nil {
		return
	}
	m.batchSize.Record(ctx, int64(size))
}

// RecordHTTPRequest counts one served HTTP request.
func (m *ScoringMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}
