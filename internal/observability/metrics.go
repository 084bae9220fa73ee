package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/bibbank/upi-risk/internal/domain/port"
)

// MeterName is the instrumentation scope for risk engine metrics.
const MeterName = "github.com/bibbank/upi-risk"

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Registry receives the exported metrics. A fresh registry with Go and
	// process collectors is created when nil.
	Registry    *prometheus.Registry
	ServiceName string
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	return provider, handler, nil
}

var _ port.PredictionMetrics = (*PredictionMetrics)(nil)

// PredictionMetrics records prediction outcomes as OTel instruments.
type PredictionMetrics struct {
	predictions     metric.Int64Counter
	errors          metric.Int64Counter
	publishFailures metric.Int64Counter
	duration        metric.Float64Histogram
}

// NewPredictionMetrics creates the prediction instruments on meter.
func NewPredictionMetrics(meter metric.Meter) (*PredictionMetrics, error) {
	predictions, err := meter.Int64Counter("risk_predictions",
		metric.WithDescription("Successful predictions by strategy and label."))
	if err != nil {
		return nil, fmt.Errorf("failed to create predictions counter: %w", err)
	}

	errs, err := meter.Int64Counter("risk_prediction_errors",
		metric.WithDescription("Failed predictions by strategy and error kind."))
	if err != nil {
		return nil, fmt.Errorf("failed to create errors counter: %w", err)
	}

	publishFailures, err := meter.Int64Counter("risk_event_publish_failures",
		metric.WithDescription("Prediction events that could not be published."))
	if err != nil {
		return nil, fmt.Errorf("failed to create publish failures counter: %w", err)
	}

	duration, err := meter.Float64Histogram("risk_prediction_duration",
		metric.WithUnit("s"),
		metric.WithDescription("Prediction latency by strategy."))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &PredictionMetrics{
		predictions:     predictions,
		errors:          errs,
		publishFailures: publishFailures,
		duration:        duration,
	}, nil
}

// RecordPrediction counts a successful prediction.
func (m *PredictionMetrics) RecordPrediction(ctx context.Context, strategy, label string, elapsed time.Duration) {
	m.predictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("label", label),
	))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("strategy", strategy)))
}

// RecordFailure counts a failed prediction.
func (m *PredictionMetrics) RecordFailure(ctx context.Context, strategy, kind string, elapsed time.Duration) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("kind", kind),
	))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("strategy", strategy)))
}

// RecordPublishFailure counts an event batch that could not be published.
func (m *PredictionMetrics) RecordPublishFailure(ctx context.Context) {
	m.publishFailures.Add(ctx, 1)
}
