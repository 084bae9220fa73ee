package observability_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/bibbank/upi-risk/internal/observability"
)

func TestInitMetrics_ExposesPredictionMetrics(t *testing.T) {
	provider, handler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "riskd",
		Registry:    prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	metrics, err := observability.NewPredictionMetrics(provider.Meter(observability.MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordPrediction(ctx, "local", "FRAUD", 3*time.Millisecond)
	metrics.RecordFailure(ctx, "remote", "transport", 10*time.Millisecond)
	metrics.RecordPublishFailure(ctx)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, "risk_predictions_total")
	assert.Contains(t, text, `label="FRAUD"`)
	assert.Contains(t, text, "risk_prediction_errors_total")
	assert.Contains(t, text, `kind="transport"`)
	assert.Contains(t, text, "risk_prediction_duration_seconds")
	assert.Contains(t, text, "risk_event_publish_failures_total")
}

func TestInitMetrics_DefaultRegistry(t *testing.T) {
	_, first, err := observability.InitMetrics(observability.MetricsConfig{})
	require.NoError(t, err)
	_, second, err := observability.InitMetrics(observability.MetricsConfig{})
	require.NoError(t, err)

	assert.NotNil(t, first)
	assert.NotNil(t, second)
}

func TestPredictionMetrics_NoopMeter(t *testing.T) {
	metrics, err := observability.NewPredictionMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		metrics.RecordPrediction(context.Background(), "local", "LEGIT", time.Millisecond)
		metrics.RecordFailure(context.Background(), "local", "validation", time.Millisecond)
		metrics.RecordPublishFailure(context.Background())
	})
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := observability.InitTracer(context.Background(), observability.TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
