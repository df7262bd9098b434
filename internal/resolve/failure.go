package resolve

import "fmt"

// FailureKind classifies why resolution stopped.
type FailureKind string

const (
	// TooFewSegments: the request supplied fewer path segments than the
	// pipeline has steps. Checked up front, before any parse or lookup.
	TooFewSegments FailureKind = "too_few_segments"

	// InvalidIdentifier: a segment failed its step's identifier grammar.
	InvalidIdentifier FailureKind = "invalid_identifier"

	// EntityNotFound: the identifier parsed but no entity with that ID
	// exists in the parent's scope.
	EntityNotFound FailureKind = "entity_not_found"
)

// Failure describes exactly where and why a resolution stopped. Stage is
// the zero-based index of the failing step; EntityKind is that step's kind
// name, used by the HTTP responder to name the offending identifier.
type Failure struct {
	Stage      int
	Kind       FailureKind
	EntityKind string
	Reason     string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("resolution failed at stage %d (%s): %s: %s", f.Stage, f.EntityKind, f.Kind, f.Reason)
}
