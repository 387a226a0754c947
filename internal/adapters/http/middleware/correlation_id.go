package middleware

import (
	"context"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
)

// HeaderCorrelationID ties together the whole chain of work a single
// storefront or admin action causes across services, where the request ID
// only covers one hop.
const HeaderCorrelationID = "X-Correlation-ID"

type correlationIDKey struct{}

// CorrelationID adopts the caller's X-Correlation-ID, or starts a new chain
// from the request ID when the caller sent none. It must run after
// RequestID so the fallback has something to grab.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderCorrelationID)
			if id == "" {
				id = RequestIDFromContext(r.Context())
			}

			ctx := WithCorrelationID(r.Context(), id)
			w.Header().Set(HeaderCorrelationID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithCorrelationID stores the correlation ID for this package and for the
// outbound client in one step.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, correlationIDKey{}, id)
	return httpclient.WithCorrelationID(ctx, id)
}

// CorrelationIDFromContext returns the correlation ID, or "" when none was
// set.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
