// Package requestmeta provides middleware that stamps each request with
// request-scoped metadata: a correlation ID, a single "now" timestamp, and
// the HTTP host used for tenant-scoped root lookups.
package requestmeta

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"chargenet/pkg/requestcontext"
)

// HeaderRequestID is the inbound/outbound correlation ID header.
const HeaderRequestID = "X-Request-Id"

// Middleware captures request metadata at the start of the request. All
// operations within a single request observe the same timestamp, keeping
// event occurrences and logs consistent.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		ctx = requestcontext.WithHost(ctx, r.Host)

		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
