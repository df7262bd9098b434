// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context values are set by middleware but consumed by services. Keeping this
// package free of net/http dependencies lets services import only what they
// need without pulling in HTTP-related code.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	hostKey        struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyHost        = hostKey{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Host retrieves the HTTP host the request arrived on. Tenant-scoped root
// lookups use this to select a roaming network by hostname.
func Host(ctx context.Context) string {
	if host, ok := ctx.Value(ContextKeyHost).(string); ok {
		return host
	}
	return ""
}

// WithHost injects the request host into the context.
func WithHost(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, ContextKeyHost, host)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts like workers or tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
