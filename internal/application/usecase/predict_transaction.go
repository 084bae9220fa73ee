package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/upi-risk/internal/application/dto"
	"github.com/bibbank/upi-risk/internal/domain/event"
	"github.com/bibbank/upi-risk/internal/domain/model"
	"github.com/bibbank/upi-risk/internal/domain/port"
	"github.com/bibbank/upi-risk/internal/domain/service"
)

const tracerName = "github.com/bibbank/upi-risk/internal/application/usecase"

// DefaultPublishTimeout bounds event publishing after a prediction.
const DefaultPublishTimeout = 2 * time.Second

// PredictTransaction validates a request, dispatches it to the configured
// prediction strategy and reports the outcome.
type PredictTransaction struct {
	predictor service.Predictor
	publisher port.EventPublisher
	metrics   port.PredictionMetrics
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time

	publishTimeout time.Duration
}

// Option customises a PredictTransaction.
type Option func(*PredictTransaction)

// WithPublisher sets the event publisher. Without one no events are emitted.
func WithPublisher(publisher port.EventPublisher) Option {
	return func(uc *PredictTransaction) { uc.publisher = publisher }
}

// WithMetrics sets the prediction metrics recorder.
func WithMetrics(metrics port.PredictionMetrics) Option {
	return func(uc *PredictTransaction) { uc.metrics = metrics }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(uc *PredictTransaction) { uc.logger = logger }
}

// WithTracer sets the tracer used for the PredictTransaction span.
func WithTracer(tracer trace.Tracer) Option {
	return func(uc *PredictTransaction) { uc.tracer = tracer }
}

// WithPublishTimeout overrides DefaultPublishTimeout. Non-positive values are ignored.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(uc *PredictTransaction) {
		if timeout > 0 {
			uc.publishTimeout = timeout
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(uc *PredictTransaction) { uc.now = now }
}

// NewPredictTransaction creates a new PredictTransaction use case.
func NewPredictTransaction(predictor service.Predictor, opts ...Option) *PredictTransaction {
	uc := &PredictTransaction{
		predictor: predictor,
		metrics:   noopMetrics{},
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,

		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Strategy returns the name of the configured prediction strategy.
func (uc *PredictTransaction) Strategy() string {
	return uc.predictor.Name()
}

// Execute runs a single prediction. Validation failures are returned before
// any strategy is invoked; strategy failures are returned unchanged so callers
// can classify them with model.ErrorKind.
func (uc *PredictTransaction) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	strategy := uc.predictor.Name()

	ctx, span := uc.tracer.Start(ctx, "PredictTransaction",
		trace.WithAttributes(attribute.String("risk.strategy", strategy)))
	defer span.End()

	start := time.Now()

	tx, err := req.ToModel()
	if err != nil {
		return uc.fail(ctx, span, strategy, start, err)
	}

	result, err := uc.predictor.Predict(ctx, tx)
	if err != nil {
		return uc.fail(ctx, span, strategy, start, err)
	}
	if result == nil {
		return uc.fail(ctx, span, strategy, start, &model.DecodeError{Err: fmt.Errorf("strategy %s returned no result", strategy)})
	}

	elapsed := time.Since(start)
	label := result.Label.String()
	uc.metrics.RecordPrediction(ctx, strategy, label, elapsed)

	span.SetAttributes(
		attribute.String("risk.label", label),
		attribute.Float64("risk.score", result.Score),
	)

	uc.logger.InfoContext(ctx, "prediction completed",
		"strategy", strategy,
		"label", label,
		"score", result.Score,
		"duration_ms", elapsed.Milliseconds(),
	)

	uc.publish(ctx, strategy, result)

	return dto.FromModel(result, strategy), nil
}

func (uc *PredictTransaction) fail(
	ctx context.Context,
	span trace.Span,
	strategy string,
	start time.Time,
	err error,
) (dto.PredictionResponse, error) {
	kind := model.ErrorKind(err)
	uc.metrics.RecordFailure(ctx, strategy, kind, time.Since(start))

	span.RecordError(err)
	span.SetStatus(codes.Error, kind)

	level := slog.LevelError
	if kind == model.KindValidation {
		level = slog.LevelWarn
	}
	uc.logger.Log(ctx, level, "prediction failed",
		"strategy", strategy,
		"kind", kind,
		"error", err,
	)

	return dto.PredictionResponse{}, err
}

// publish emits prediction events under its own deadline, detached from the
// caller's cancellation. Failures are logged and counted but never change the
// prediction outcome.
func (uc *PredictTransaction) publish(ctx context.Context, strategy string, result *model.PredictionResult) {
	if uc.publisher == nil {
		return
	}

	features := make([]string, 0, len(result.TopFeatures))
	for _, f := range result.TopFeatures {
		features = append(features, f.Name)
	}

	completed := event.NewPredictionCompleted(strategy, result.Label.String(), result.Score, features, uc.now().UTC())
	events := []event.Event{completed}
	if result.Label.IsFraud() {
		events = append(events, event.NewFraudFlagged(completed))
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.publishTimeout)
	defer cancel()

	if err := uc.publisher.Publish(pubCtx, events...); err != nil {
		uc.metrics.RecordPublishFailure(ctx)
		uc.logger.WarnContext(ctx, "failed to publish prediction events",
			"strategy", strategy,
			"error", err,
		)
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordPrediction(context.Context, string, string, time.Duration) {}
func (noopMetrics) RecordFailure(context.Context, string, string, time.Duration)    {}
func (noopMetrics) RecordPublishFailure(context.Context)                           {}
