package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/bibbank/upi-risk/internal/domain/event"
	"github.com/bibbank/upi-risk/internal/domain/port"
)

var _ port.EventPublisher = (*KafkaPublisher)(nil)

// MessageWriter is the subset of *kafkago.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher implements port.EventPublisher using Kafka.
type KafkaPublisher struct {
	writer MessageWriter
	logger *slog.Logger
	topic  string
}

// Writer limits bound how long a stalled broker can block a publish.
const (
	writerMaxAttempts  = 3
	writerWriteTimeout = 2 * time.Second
	writerReadTimeout  = 2 * time.Second
)

// NewKafkaWriter creates a kafka-go writer for topic.
func NewKafkaWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafkago.RequireAll,
		MaxAttempts:            writerMaxAttempts,
		WriteTimeout:           writerWriteTimeout,
		ReadTimeout:            writerReadTimeout,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(writer MessageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Publish sends events to Kafka in a single batch, keyed by event ID.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...event.Event) error {
	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		eventType := evt.EventType()

		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, kafkago.Message{
			Key:   []byte(evt.EventID().String()),
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(eventType)},
				{Key: "content-type", Value: []byte("application/json")},
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("closing kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
