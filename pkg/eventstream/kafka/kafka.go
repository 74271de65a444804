// Package kafka provides an eventstream publisher backed by a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	segmentio "github.com/segmentio/kafka-go"

	"github.com/reelstack/reelqa/pkg/eventstream"
)

// DefaultTopic is the topic events are published to when none is configured.
const DefaultTopic = "reelqa.events"

// Publisher writes events as JSON messages to a Kafka topic. The event type
// is used as the message key so consumers can partition by kind.
type Publisher struct {
	writer *segmentio.Writer
	logger *slog.Logger
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses. At least one is
	// required.
	Brokers []string

	// Topic is the destination topic. Defaults to DefaultTopic if empty.
	Topic string
}

// NewPublisher creates a Kafka-backed eventstream publisher.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &segmentio.Writer{
		Addr:     segmentio.TCP(cfg.Brokers...),
		Topic:    topic,
		Balancer: &segmentio.LeastBytes{},
	}

	return &Publisher{writer: writer, logger: logger}, nil
}

// PublishDocumentIndexed writes a document-indexed event to the topic.
func (p *Publisher) PublishDocumentIndexed(ctx context.Context, event *eventstream.DocumentIndexedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return p.publish(ctx, event.EventType, event.EventID, event)
}

// PublishAnswerGenerated writes an answer-generated event to the topic.
func (p *Publisher) PublishAnswerGenerated(ctx context.Context, event *eventstream.AnswerGeneratedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return p.publish(ctx, event.EventType, event.EventID, event)
}

func (p *Publisher) publish(ctx context.Context, eventType, eventID string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", eventID, err)
	}

	if err := p.writer.WriteMessages(ctx, segmentio.Message{
		Key:   []byte(eventType),
		Value: value,
	}); err != nil {
		return fmt.Errorf("publishing event %s: %w", eventID, err)
	}

	p.logger.Debug("event published",
		"event_type", eventType,
		"event_id", eventID,
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
