package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message. A returned error is logged and
// the message is not committed.
type Handler func(ctx context.Context, msg Message) error

// Consumer reads one topic and hands each message to a Handler.
type Consumer struct {
	reader  *kafkago.Reader
	handler Handler
	logger  *slog.Logger
	commit  bool
}

// NewConsumer creates a Consumer for topic. Offsets are committed only when
// cfg.ConsumerGroup is set.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka consumer requires at least one broker")
	}
	if handler == nil {
		return nil, errors.New("kafka consumer requires a handler")
	}
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, fmt.Errorf("kafka dialer: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	start := kafkago.LastOffset
	if cfg.FromBeginning {
		start = kafkago.FirstOffset
	}
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     cfg.ConsumerGroup,
		StartOffset: start,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		Dialer:      dialer,
	})
	if cfg.ConsumerGroup == "" {
		if err := reader.SetOffset(start); err != nil {
			_ = reader.Close()
			return nil, fmt.Errorf("kafka set offset: %w", err)
		}
	}

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger.With(slog.String("topic", topic), slog.String("group", cfg.ConsumerGroup)),
		commit:  cfg.ConsumerGroup != "",
	}, nil
}

// Start consumes until ctx is canceled, which is not an error.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting")

	for {
		m, err := c.reader.FetchMessage(ctx)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.logger.Info("consumer stopping")
			return nil
		case err != nil:
			return fmt.Errorf("fetching message: %w", err)
		}
		c.process(ctx, m)
	}
}

func (c *Consumer) process(ctx context.Context, m kafkago.Message) {
	attrs := []any{slog.Int("partition", m.Partition), slog.Int64("offset", m.Offset)}

	if err := c.handler(ctx, fromKafkaMessage(m)); err != nil {
		c.logger.Error("handler error", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	if !c.commit {
		return
	}
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		c.logger.Error("commit error", append(attrs, slog.String("error", err.Error()))...)
	}
}

func fromKafkaMessage(m kafkago.Message) Message {
	msg := Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
