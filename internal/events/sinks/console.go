// Package sinks provides the built-in sink adapters: console, disk, Kafka,
// Redis publish and the SSE push stream. Each sink isolates its own
// failures; the registry swallows whatever they return.
package sinks

import (
	"context"
	"log/slog"

	"chargenet/internal/events"
)

// Console logs every occurrence through the structured logger.
type Console struct {
	logger *slog.Logger
}

// NewConsole creates the console sink.
func NewConsole(logger *slog.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Deliver(_ context.Context, occ events.Occurrence) error {
	payload := ""
	if occ.Payload != nil {
		payload = occ.Payload.String()
	}
	c.logger.Info("event",
		"name", occ.Name,
		"timestamp", occ.Timestamp,
		"tags", occ.Tags,
		"payload", payload,
	)
	return nil
}
