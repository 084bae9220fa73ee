package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypePredictionCompleted is emitted after every successful prediction.
	EventTypePredictionCompleted = "risk.prediction.completed"

	// EventTypeFraudFlagged is emitted when a prediction is labelled FRAUD.
	EventTypeFraudFlagged = "risk.fraud.flagged"
)

// Event is implemented by every risk engine event.
type Event interface {
	EventID() uuid.UUID
	EventType() string
}

// PredictionCompleted is published when a transaction has been scored.
// It carries no payer, payee or device identifiers.
type PredictionCompleted struct {
	OccurredAt  time.Time `json:"occurred_at"`
	Strategy    string    `json:"strategy"`
	Label       string    `json:"label"`
	TopFeatures []string  `json:"top_features"`
	Score       float64   `json:"score"`
	ID          uuid.UUID `json:"event_id"`
}

// NewPredictionCompleted creates a PredictionCompleted event with a fresh ID.
func NewPredictionCompleted(strategy, label string, score float64, topFeatures []string, occurredAt time.Time) PredictionCompleted {
	return PredictionCompleted{
		ID:          uuid.New(),
		Strategy:    strategy,
		Label:       label,
		Score:       score,
		TopFeatures: topFeatures,
		OccurredAt:  occurredAt,
	}
}

// EventID returns the unique event identifier.
func (e PredictionCompleted) EventID() uuid.UUID { return e.ID }

// EventType returns the event type identifier.
func (e PredictionCompleted) EventType() string { return EventTypePredictionCompleted }

// FraudFlagged is published when a transaction is labelled FRAUD, so that
// downstream review queues can pick it up.
type FraudFlagged struct {
	OccurredAt   time.Time `json:"occurred_at"`
	Strategy     string    `json:"strategy"`
	TopFeature   string    `json:"top_feature,omitempty"`
	Score        float64   `json:"score"`
	ID           uuid.UUID `json:"event_id"`
	PredictionID uuid.UUID `json:"prediction_event_id"`
}

// NewFraudFlagged creates a FraudFlagged event linked to its PredictionCompleted event.
func NewFraudFlagged(completed PredictionCompleted) FraudFlagged {
	var top string
	if len(completed.TopFeatures) > 0 {
		top = completed.TopFeatures[0]
	}
	return FraudFlagged{
		ID:           uuid.New(),
		PredictionID: completed.ID,
		Strategy:     completed.Strategy,
		Score:        completed.Score,
		TopFeature:   top,
		OccurredAt:   completed.OccurredAt,
	}
}

// EventID returns the unique event identifier.
func (e FraudFlagged) EventID() uuid.UUID { return e.ID }

// EventType returns the event type identifier.
func (e FraudFlagged) EventType() string { return EventTypeFraudFlagged }
