package port

import (
	"context"
	"time"

	"github.com/bibbank/upi-risk/internal/domain/event"
)

// EventPublisher defines the port for publishing risk engine events.
type EventPublisher interface {
	// Publish sends one or more events to the messaging infrastructure.
	Publish(ctx context.Context, events ...event.Event) error
}

// PredictionMetrics records prediction outcomes.
type PredictionMetrics interface {
	// RecordPrediction counts a successful prediction.
	RecordPrediction(ctx context.Context, strategy, label string, elapsed time.Duration)

	// RecordFailure counts a failed prediction by error kind.
	RecordFailure(ctx context.Context, strategy, kind string, elapsed time.Duration)

	// RecordPublishFailure counts an event that could not be published.
	RecordPublishFailure(ctx context.Context)
}
