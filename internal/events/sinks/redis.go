package sinks

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"chargenet/internal/events"
)

// Redis publishes occurrences onto a Redis channel so out-of-process
// consumers can follow the event stream.
type Redis struct {
	client  redis.UniversalClient
	channel string
}

// NewRedis creates the Redis publish sink.
func NewRedis(client redis.UniversalClient, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Deliver(ctx context.Context, occ events.Occurrence) error {
	payload, err := occ.Encode()
	if err != nil {
		return fmt.Errorf("encode occurrence: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", r.channel, err)
	}
	return nil
}
