// Package kafka publishes credit assessment events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Isaksend/credit-score/pkg/events"
	pkgkafka "github.com/Isaksend/credit-score/pkg/kafka"
)

// Header names set on every published message.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
	HeaderContentType   = "content-type"
)

// MessageProducer is the subset of pkgkafka.Producer used by the publisher.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements port.EventPublisher on a single topic.
type Publisher struct {
	producer MessageProducer
	logger   *slog.Logger
	topic    string
}

// NewPublisher creates a publisher writing to topic.
func NewPublisher(producer MessageProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With(slog.String("topic", topic)),
	}
}

// Publish sends the events as one batch of JSON envelopes. Messages are keyed
// by aggregate id so the events of one assessment keep their order.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		msg, err := toMessage(evt)
		if err != nil {
			return err
		}
		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", evt.EventType()),
			slog.String("event_id", evt.EventID().String()),
			slog.Int("payload_size", len(msg.Value)),
		)
		messages = append(messages, msg)
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish %d events to topic %s: %w", len(messages), p.topic, err)
	}
	return nil
}

func toMessage(evt events.DomainEvent) (pkgkafka.Message, error) {
	value, err := events.NewEnvelope(evt).Marshal()
	if err != nil {
		return pkgkafka.Message{}, fmt.Errorf("failed to encode event %s: %w", evt.EventType(), err)
	}
	return pkgkafka.Message{
		Key:   []byte(evt.AggregateID().String()),
		Value: value,
		Headers: map[string]string{
			HeaderEventType:     evt.EventType(),
			HeaderEventID:       evt.EventID().String(),
			HeaderAggregateType: evt.AggregateType(),
			HeaderContentType:   "application/json",
		},
	}, nil
}
