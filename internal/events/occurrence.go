// Package events implements the process-wide event registry: named domain
// events fan out to a set of attached sinks. Registration is idempotent,
// delivery is asynchronous per sink, and one sink's failure never reaches
// the code that raised the event.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the event-specific data carried by an occurrence. Sinks must
// not assume anything beyond a textual representation; concrete shapes stay
// private to the code that raises the event.
type Payload interface {
	fmt.Stringer
}

// Occurrence is an immutable snapshot of one event being raised. Every sink
// receives an equivalent, independently readable view; nothing mutates an
// occurrence after creation.
type Occurrence struct {
	Name      string
	Timestamp time.Time
	Tags      []string
	Payload   Payload
}

// record is the wire form shared by the disk, Kafka and Redis sinks.
type record struct {
	Event     string   `json:"event"`
	Timestamp string   `json:"timestamp"`
	Tags      []string `json:"tags,omitempty"`
	Payload   string   `json:"payload,omitempty"`
}

// Encode renders the occurrence as a single JSON document.
func (o Occurrence) Encode() ([]byte, error) {
	rec := record{
		Event:     o.Name,
		Timestamp: o.Timestamp.Format(time.RFC3339Nano),
		Tags:      o.Tags,
	}
	if o.Payload != nil {
		rec.Payload = o.Payload.String()
	}
	return json.Marshal(rec)
}

// TextPayload is a plain string payload.
type TextPayload string

func (p TextPayload) String() string { return string(p) }

// RequestPayload describes the request that triggered an event.
type RequestPayload struct {
	RequestID string
	Method    string
	Path      string
	Body      string
}

func (p RequestPayload) String() string {
	return fmt.Sprintf("request %s %s %s %s", p.RequestID, p.Method, p.Path, p.Body)
}

// RequestResponsePayload describes a completed operation: the triggering
// request plus the outcome the caller saw.
type RequestResponsePayload struct {
	Request  RequestPayload
	Status   int
	Response string
}

func (p RequestResponsePayload) String() string {
	return fmt.Sprintf("%s -> %d %s", p.Request, p.Status, p.Response)
}
