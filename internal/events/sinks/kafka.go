package sinks

import (
	"context"
	"fmt"

	"chargenet/internal/events"
	"chargenet/internal/platform/kafka"
)

// Kafka forwards occurrences to a Kafka topic, keyed by event name so one
// event's occurrences stay ordered within a partition. The delivery context
// from the registry bounds the produce; expiry is a delivery failure, never
// retried here.
type Kafka struct {
	producer *kafka.Producer
}

// NewKafka creates the Kafka sink.
func NewKafka(producer *kafka.Producer) *Kafka {
	return &Kafka{producer: producer}
}

func (k *Kafka) Name() string { return "kafka" }

func (k *Kafka) Deliver(ctx context.Context, occ events.Occurrence) error {
	value, err := occ.Encode()
	if err != nil {
		return fmt.Errorf("encode occurrence: %w", err)
	}
	return k.producer.Produce(ctx, occ.Name, value)
}
