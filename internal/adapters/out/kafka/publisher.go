// Package kafka publishes outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/ports"

	"github.com/IBM/sarama"
)

const (
	headerEventID   = "event-id"
	headerEventType = "event-type"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher sends each message synchronously and waits for all in-sync replicas.
// Messages are keyed by aggregate id so the events of one order stay ordered
// within a partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewConfig returns the producer settings the publisher relies on.
func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Version = sarama.V2_6_0_0
	return config
}

// NewPublisher connects to brokers with NewConfig.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewPublisherWithProducer(producer, topic, logger), nil
}

func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka-publisher", "topic", topic),
	}
}

// Publish sends msg. The producer call itself cannot be cancelled; ctx is only
// checked before sending.
func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.AggregateID.String()),
		Value: sarama.ByteEncoder(msg.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventID), Value: []byte(msg.ID.String())},
			{Key: []byte(headerEventType), Value: []byte(msg.Type)},
		},
		Timestamp: msg.OccurredAt,
	})
	if err != nil {
		p.logger.Error("failed to publish event", "event_id", msg.ID.String(), "error", err)
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}

	p.logger.Debug("event published",
		"event_id", msg.ID.String(),
		"type", msg.Type,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
