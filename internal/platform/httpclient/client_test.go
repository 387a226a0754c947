package httpclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/commercemesh/catalog-sync/internal/platform/config"
	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
)

func clientConfig() *config.ClientConfig {
	return &config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
}

func newClient(cfg *config.ClientConfig, baseURL string) *httpclient.Client {
	return httpclient.New(cfg, "commerce-api", baseURL, nil, slog.New(slog.DiscardHandler))
}

// get issues one GET through the client and returns the result; the caller
// owns the body.
func get(t *testing.T, c *httpclient.Client, url string) (*http.Response, error) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, http.NoBody)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	return c.Do(context.Background(), req)
}

func closeBody(resp *http.Response) {
	if resp != nil {
		_ = resp.Body.Close()
	}
}

func TestDo_PassesResponseThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"products":[]}`))
	}))
	t.Cleanup(srv.Close)

	resp, err := get(t, newClient(clientConfig(), srv.URL), srv.URL+"/store/products")
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"products":[]}` {
		t.Errorf("body = %q", body)
	}
}

func TestDo_RetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		failures  int
		wantCalls int32
	}{
		{"503 until success", http.StatusServiceUnavailable, 2, 3},
		{"429 until success", http.StatusTooManyRequests, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if int(calls.Add(1)) <= tt.failures {
					w.WriteHeader(tt.status)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			t.Cleanup(srv.Close)

			resp, err := get(t, newClient(clientConfig(), srv.URL), srv.URL+"/flaky")
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			closeBody(resp)

			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("server calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestDo_ClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	t.Cleanup(srv.Close)

	resp, err := get(t, newClient(clientConfig(), srv.URL), srv.URL+"/admin/product-categories")
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	closeBody(resp)

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestDo_ExhaustedRetriesKeepLastResponse(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance window"))
	}))
	t.Cleanup(srv.Close)

	resp, err := get(t, newClient(clientConfig(), srv.URL), srv.URL+"/down")
	if err == nil {
		t.Fatal("Do returned nil error after exhausting retries")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
	if resp == nil {
		t.Fatal("resp is nil, want the final response so the error body is readable")
	}
	defer closeBody(resp)

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "maintenance window" {
		t.Errorf("body = %q, want the downstream error body", body)
	}
}

func TestDo_BodyReplayedOnRetry(t *testing.T) {
	t.Parallel()

	var (
		calls  atomic.Int32
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newClient(clientConfig(), srv.URL)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
		srv.URL+"/api/products", strings.NewReader(`{"handle":"denim-jacket"}`))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}

	resp, err := c.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	closeBody(resp)

	if len(bodies) != 2 {
		t.Fatalf("server calls = %d, want 2", len(bodies))
	}
	for i, b := range bodies {
		if b != `{"handle":"denim-jacket"}` {
			t.Errorf("attempt %d saw body %q, want the original payload", i+1, b)
		}
	}
}

func TestDo_PropagatesIDHeaders(t *testing.T) {
	t.Parallel()

	var reqID, corrID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID = r.Header.Get("X-Request-ID")
		corrID = r.Header.Get("X-Correlation-ID")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newClient(clientConfig(), srv.URL)
	ctx := httpclient.WithRequestID(context.Background(), "req-123")
	ctx = httpclient.WithCorrelationID(ctx, "corr-456")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/ids", http.NoBody)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	closeBody(resp)

	if reqID != "req-123" {
		t.Errorf("X-Request-ID = %q, want %q", reqID, "req-123")
	}
	if corrID != "corr-456" {
		t.Errorf("X-Correlation-ID = %q, want %q", corrID, "corr-456")
	}
}

func TestDo_NoIDHeadersFromBareContext(t *testing.T) {
	t.Parallel()

	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	resp, err := get(t, newClient(clientConfig(), srv.URL), srv.URL+"/ids")
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	closeBody(resp)

	if got := headers.Get("X-Request-ID"); got != "" {
		t.Errorf("X-Request-ID = %q, want unset", got)
	}
	if got := headers.Get("X-Correlation-ID"); got != "" {
		t.Errorf("X-Correlation-ID = %q, want unset", got)
	}
}

// trip sends one failing request so a MaxFailures=1 breaker opens.
func trip(t *testing.T, c *httpclient.Client, url string) {
	t.Helper()
	resp, _ := get(t, c, url)
	closeBody(resp)
}

func TestDo_BreakerOpensAndShortCircuits(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cfg := clientConfig()
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.Retry.MaxAttempts = 1
	c := newClient(cfg, srv.URL)

	trip(t, c, srv.URL+"/cb")

	before := calls.Load()
	resp, err := get(t, c, srv.URL+"/cb")
	closeBody(resp)

	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("error = %v, want gobreaker.ErrOpenState", err)
	}
	if calls.Load() != before {
		t.Error("open breaker still let a request through to the server")
	}
}

func TestDo_BreakerRecoversAfterTimeout(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	failing.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := clientConfig()
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.CircuitBreaker.Timeout = 100 * time.Millisecond
	cfg.Retry.MaxAttempts = 1
	c := newClient(cfg, srv.URL)

	trip(t, c, srv.URL+"/recover")

	resp, err := get(t, c, srv.URL+"/recover")
	closeBody(resp)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("breaker not open after failure: %v", err)
	}

	time.Sleep(150 * time.Millisecond) // half-open window
	failing.Store(false)

	resp, err = get(t, c, srv.URL+"/recover")
	if err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d after recovery, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestDo_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := newClient(clientConfig(), srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/cancel", http.NoBody)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := c.Do(ctx, req)
	closeBody(resp)

	if err == nil {
		t.Fatal("Do returned nil error for a canceled context")
	}
}

func TestClient_NameAndBaseURL(t *testing.T) {
	t.Parallel()

	c := newClient(clientConfig(), "http://medusa.internal:9000")

	if got := c.Name(); got != "commerce-api" {
		t.Errorf("Name() = %q", got)
	}
	if got := c.BaseURL(); got != "http://medusa.internal:9000" {
		t.Errorf("BaseURL() = %q", got)
	}
}

func TestClient_HealthCheckTracksBreaker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cfg := clientConfig()
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.CircuitBreaker.Timeout = 100 * time.Millisecond
	cfg.Retry.MaxAttempts = 1
	c := newClient(cfg, srv.URL)

	// Fresh client: breaker closed, downstream presumed healthy.
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck on fresh client = %v, want nil", err)
	}

	trip(t, c, srv.URL+"/probe")

	err := c.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failing") {
		t.Errorf("HealthCheck with open breaker = %v, want %q error", err, "failing")
	}

	time.Sleep(150 * time.Millisecond) // breaker moves to half-open

	err = c.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "degraded") {
		t.Errorf("HealthCheck with half-open breaker = %v, want %q error", err, "degraded")
	}
}
