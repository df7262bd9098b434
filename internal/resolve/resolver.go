// Package resolve turns ordered URL path segments into validated chains of
// domain entities. A pipeline is data: an ordered list of steps, each
// knowing how to parse one segment into a typed ID and look that ID up in
// the scope of the previous step's entity. Every concrete hierarchy
// traversal in the API is an instantiation of the one algorithm below, so
// a malformed request fails identically no matter which route it hit.
package resolve

import (
	"context"
	"fmt"
)

// Step describes how to go from a parent entity (nil for the root) plus one
// path segment to a child entity.
type Step struct {
	// Kind is the entity kind name, e.g. "ChargingPool". It appears in
	// failure responses as "Invalid <Kind>Id!" / "Unknown <Kind>Id!".
	Kind string

	// Parse validates one segment into a typed ID. It must be pure.
	Parse func(segment string) (any, error)

	// Find looks the parsed ID up in the parent's scope. parent is nil
	// for the first step (root scope).
	Find func(ctx context.Context, parent any, id any) (any, bool)
}

// Pipeline is an ordered sequence of steps. Step i+1's parent is step i's
// resolved entity.
type Pipeline []Step

// Chain is the ordered list of resolved entities, one per step.
type Chain []any

// At returns the entity at index i asserted to type T.
func At[T any](c Chain, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(c) {
		return zero, false
	}
	v, ok := c[i].(T)
	return v, ok
}

// Last returns the final entity of the chain asserted to type T.
func Last[T any](c Chain) (T, bool) {
	return At[T](c, len(c)-1)
}

// Resolve consumes segments left to right through the pipeline. It returns
// the full chain, or the first failure; later steps are never attempted
// after a failure and no partial chain is ever reported as success.
//
// The segment-count check runs before any parsing: a request that is too
// short fails with TooFewSegments at stage 0 without triggering a single
// parse or lookup. Once enough segments exist, each stage is evaluated
// independently and in order, so a well-formed but unknown first segment
// yields EntityNotFound at stage 0 even when later segments are absent
// from the directory too.
func Resolve(ctx context.Context, pipeline Pipeline, segments []string) (Chain, *Failure) {
	if len(segments) < len(pipeline) {
		return nil, &Failure{
			Stage:      0,
			Kind:       TooFewSegments,
			EntityKind: pipeline[0].Kind,
			Reason:     fmt.Sprintf("expected %d path segments, got %d", len(pipeline), len(segments)),
		}
	}

	chain := make(Chain, 0, len(pipeline))
	var parent any

	for i, step := range pipeline {
		id, err := step.Parse(segments[i])
		if err != nil {
			return nil, &Failure{
				Stage:      i,
				Kind:       InvalidIdentifier,
				EntityKind: step.Kind,
				Reason:     err.Error(),
			}
		}

		entity, ok := step.Find(ctx, parent, id)
		if !ok {
			return nil, &Failure{
				Stage:      i,
				Kind:       EntityNotFound,
				EntityKind: step.Kind,
				Reason:     fmt.Sprintf("no %s with id %q in scope", step.Kind, segments[i]),
			}
		}

		chain = append(chain, entity)
		parent = entity
	}

	return chain, nil
}
