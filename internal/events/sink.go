package events

import "context"

// Sink consumes event occurrences. Deliver is called on a dedicated
// goroutine with a bounded context; returning an error (or overrunning the
// context) marks the delivery failed for this sink only. Sinks own their
// retry policy; the registry never retries.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	Deliver(ctx context.Context, occ Occurrence) error
}
