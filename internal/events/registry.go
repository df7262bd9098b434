package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chargenet/internal/events/metrics"
)

const defaultDeliveryTimeout = 5 * time.Second

// Registry is the process-wide table of event registrations. It owns the
// table for the process lifetime, but never the sinks' resources.
type Registry struct {
	source   Source
	logger   *slog.Logger
	metrics  *metrics.Metrics
	defaults []Sink
	timeout  time.Duration

	mu     sync.Mutex
	events map[string]*Registration
	wg     sync.WaitGroup
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaultSinks sets the sinks attached to every registration unless the
// caller opts out. Typically console plus disk.
func WithDefaultSinks(sinks ...Sink) Option {
	return func(r *Registry) { r.defaults = sinks }
}

// WithDeliveryTimeout bounds each individual sink delivery.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMetrics attaches fan-out metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates a registry over the given event source.
func NewRegistry(source Source, logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		source:  source,
		logger:  logger,
		timeout: defaultDeliveryTimeout,
		events:  make(map[string]*Registration),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registration is one event's entry in the registry: its tags and the set
// of attached sinks. Methods chain and are idempotent both ways.
type Registration struct {
	registry *Registry
	name     string
	tags     []string

	sinks       map[Sink]struct{}
	unsubscribe func()
}

// Register creates the registration for name, or returns the existing one.
// A new registration subscribes to the source exactly once and starts out
// with the registry's default sinks attached.
func (r *Registry) Register(name string, tags ...string) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.events[name]; ok {
		return g
	}

	g := &Registration{
		registry: r,
		name:     name,
		tags:     append([]string(nil), tags...),
		sinks:    make(map[Sink]struct{}),
	}
	for _, s := range r.defaults {
		g.sinks[s] = struct{}{}
	}

	unsub, err := r.source.Subscribe(name, g.dispatch)
	if err != nil {
		// The in-process bus never fails to subscribe; an exotic source
		// that does leaves the registration sink-only.
		r.logger.Error("event source subscribe failed", "event", name, "error", err)
	}
	g.unsubscribe = unsub

	r.events[name] = g
	return g
}

// Unregister tears down the source subscription for name and removes the
// registration. Unregistering an unknown event is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.events[name]
	if !ok {
		return
	}
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
	delete(r.events, name)
}

// Close unregisters every event and waits for in-flight deliveries.
func (r *Registry) Close() {
	r.mu.Lock()
	for name, g := range r.events {
		if g.unsubscribe != nil {
			g.unsubscribe()
		}
		delete(r.events, name)
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// Attach wires a sink to this event. Attaching a sink that is already
// attached is a no-op: one occurrence yields one delivery per sink.
func (g *Registration) Attach(s Sink) *Registration {
	g.registry.mu.Lock()
	defer g.registry.mu.Unlock()
	g.sinks[s] = struct{}{}
	return g
}

// Detach removes a sink. Detaching an absent sink is a no-op, never an
// error.
func (g *Registration) Detach(s Sink) *Registration {
	g.registry.mu.Lock()
	defer g.registry.mu.Unlock()
	delete(g.sinks, s)
	return g
}

// WithoutDefaults detaches the registry's default sinks from this event.
// Explicitly attached sinks stay.
func (g *Registration) WithoutDefaults() *Registration {
	g.registry.mu.Lock()
	defer g.registry.mu.Unlock()
	for _, s := range g.registry.defaults {
		delete(g.sinks, s)
	}
	return g
}

// dispatch fans one occurrence out to every attached sink. Each delivery
// runs on its own goroutine under the registry's delivery timeout, so a
// slow or failing sink cannot stall the raiser or its peers. Ordering
// across sinks is unspecified.
func (g *Registration) dispatch(occ Occurrence) {
	r := g.registry

	r.mu.Lock()
	occ.Tags = g.tags
	sinks := make([]Sink, 0, len(g.sinks))
	for s := range g.sinks {
		sinks = append(sinks, s)
	}
	r.mu.Unlock()

	for _, s := range sinks {
		r.wg.Add(1)
		go func(s Sink) {
			defer r.wg.Done()
			r.deliver(s, occ)
		}(s)
	}
}

// deliver runs one sink delivery, isolating errors, timeouts and panics.
func (r *Registry) deliver(s Sink, occ Occurrence) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.ObserveFailure(occ.Name, s.Name(), "panic")
			r.logger.Error("event sink panicked",
				"event", occ.Name,
				"sink", s.Name(),
				"panic", fmt.Sprint(rec),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := s.Deliver(ctx, occ); err != nil {
		reason := "error"
		if ctx.Err() != nil {
			reason = "timeout"
		}
		r.metrics.ObserveFailure(occ.Name, s.Name(), reason)
		r.logger.Error("event sink delivery failed",
			"event", occ.Name,
			"sink", s.Name(),
			"error", err,
		)
		return
	}
	r.metrics.ObserveDelivery(occ.Name, s.Name(), time.Since(start))
}
