// Package kafka wraps the franz-go producer used by the Kafka event sink.
package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"chargenet/internal/platform/config"
)

// Producer publishes records to a single topic.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer creates a producer from the provided configuration.
// Returns nil if no brokers are configured (Kafka sink disabled).
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Producer{client: client, topic: cfg.Topic}, nil
}

// Produce publishes one record synchronously. The caller's context bounds
// the delivery; expiry is reported as an error, never retried here.
func (p *Producer) Produce(ctx context.Context, key string, value []byte) error {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (p *Producer) Close() {
	p.client.Close()
}
