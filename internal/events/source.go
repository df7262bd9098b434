package events

import (
	"context"
	"sync"

	"chargenet/pkg/requestcontext"
)

// Handler consumes one occurrence of an event.
type Handler func(Occurrence)

// Source is the domain side of the registry: something that can be
// subscribed to by event name. Subscribe returns the matching unsubscribe;
// calling it more than once is harmless.
type Source interface {
	Subscribe(name string, h Handler) (unsubscribe func(), err error)
}

// Bus is the in-process event source domain services raise events into.
// It implements Source for the registry and is safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string]map[uint64]Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string]map[uint64]Handler)}
}

// Subscribe attaches a handler for the named event and returns its
// unsubscribe function.
func (b *Bus) Subscribe(name string, h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[name] == nil {
		b.handlers[name] = make(map[uint64]Handler)
	}
	b.nextID++
	token := b.nextID
	b.handlers[name][token] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[name], token)
	}, nil
}

// Raise emits one occurrence of the named event. The timestamp comes from
// the request-scoped clock when present. Handlers run synchronously here;
// decoupling slow sinks from the raiser is the registry's job, not the
// bus's.
func (b *Bus) Raise(ctx context.Context, name string, payload Payload) {
	occ := Occurrence{
		Name:      name,
		Timestamp: requestcontext.Now(ctx),
		Payload:   payload,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[name]))
	for _, h := range b.handlers[name] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(occ)
	}
}
