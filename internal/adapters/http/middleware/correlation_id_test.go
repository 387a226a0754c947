package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commercemesh/catalog-sync/internal/adapters/http/middleware"
)

func TestCorrelationID_ReusesInbound(t *testing.T) {
	t.Parallel()

	var seen string
	handler := middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.CorrelationIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", http.NoBody)
	req.Header.Set(middleware.HeaderCorrelationID, "chain-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "chain-42" {
		t.Errorf("context correlation ID = %q, want the inbound header value", seen)
	}
	if got := rec.Header().Get(middleware.HeaderCorrelationID); got != "chain-42" {
		t.Errorf("response header = %q, want %q", got, "chain-42")
	}
}

func TestCorrelationID_FallsBackToRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.CorrelationIDFromContext(r.Context())
	})
	// Composed the way the router applies them: RequestID first.
	handler := middleware.RequestID()(middleware.CorrelationID()(inner))

	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "req-abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "req-abc" {
		t.Errorf("correlation ID = %q, want fallback to request ID %q", seen, "req-abc")
	}
}

func TestCorrelationIDFromContext_Unset(t *testing.T) {
	t.Parallel()

	if got := middleware.CorrelationIDFromContext(t.Context()); got != "" {
		t.Errorf("CorrelationIDFromContext on bare context = %q, want empty", got)
	}
}
