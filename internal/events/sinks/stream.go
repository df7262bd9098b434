package sinks

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"chargenet/internal/events"
)

// subscriberBuffer bounds how many occurrences a slow SSE client may lag
// behind before deliveries to it are dropped.
const subscriberBuffer = 16

// Stream is the push-stream sink: it broadcasts occurrences to connected
// SSE clients. Slow clients lose occurrences rather than blocking delivery;
// the stream is a live feed, not a durable log.
type Stream struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewStream creates the push-stream sink with no subscribers.
func NewStream() *Stream {
	return &Stream{subs: make(map[chan []byte]struct{})}
}

func (s *Stream) Name() string { return "stream" }

func (s *Stream) Deliver(_ context.Context, occ events.Occurrence) error {
	line, err := occ.Encode()
	if err != nil {
		return fmt.Errorf("encode occurrence: %w", err)
	}

	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- line:
		default:
			// subscriber is lagging, drop for this client
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Stream) subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Stream) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
}

// SubscriberCount reports the number of connected clients.
func (s *Stream) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// ServeHTTP streams occurrences to the client as server-sent events until
// the client disconnects.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-ch:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
