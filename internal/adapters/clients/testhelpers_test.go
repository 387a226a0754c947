package clients_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/commercemesh/catalog-sync/internal/platform/config"
	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestClient builds an httpclient.Client pointed at a test server with a
// single attempt so failures surface immediately.
func newTestClient(t *testing.T, baseURL string) *httpclient.Client {
	t.Helper()
	cfg := &config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
			Multiplier:      1.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   100,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
	return httpclient.New(cfg, "test-api", baseURL, nil, testLogger())
}
