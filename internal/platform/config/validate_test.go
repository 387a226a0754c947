package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercemesh/catalog-sync/internal/platform/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  2 * time.Minute,
		},
		Log: config.LogConfig{Level: "info", Format: "json"},
		Sync: config.SyncConfig{
			Secret:        "s3cret",
			StorefrontURL: "https://storefront.example.com",
			GatewayURL:    "https://commerce.example.com",
			CacheEnabled:  true,
		},
		Client: config.ClientConfig{
			Timeout: 30 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     10 * time.Second,
				Multiplier:      2.0,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Telemetry: config.TelemetryConfig{Enabled: false, Exporter: "stdout"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_ServerPort(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		cfg := validConfig()
		cfg.Server.Port = port
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	}
}

func TestValidate_LogEnums(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
}

func TestValidate_SyncURLs(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"absolute https", "https://storefront.example.com", true},
		{"absolute http with port", "http://localhost:3000", true},
		{"empty is optional", "", true},
		{"missing scheme", "storefront.example.com", false},
		{"scheme only", "https://", false},
		{"relative path", "/api/revalidate", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Sync.StorefrontURL = tt.url
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "sync.storefront_url")
			}
		})
	}
}

func TestValidate_ClientBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Client.Timeout = 0
	cfg.Client.Retry.MaxAttempts = 0
	cfg.Client.Retry.Multiplier = 0
	cfg.Client.CircuitBreaker.MaxFailures = 0
	cfg.Client.RateLimit.RequestsPerSecond = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client.timeout")
	assert.Contains(t, err.Error(), "client.retry.max_attempts")
	assert.Contains(t, err.Error(), "client.retry.multiplier")
	assert.Contains(t, err.Error(), "client.circuit_breaker.max_failures")
	assert.Contains(t, err.Error(), "client.rate_limit.requests_per_second")
}

func TestValidate_TelemetrySkippedWhenDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Enabled = false
	cfg.Telemetry.Exporter = "bogus"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_TelemetryEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "bogus"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry.exporter")

	cfg = validConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp"
	cfg.Telemetry.Endpoint = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry.endpoint")

	cfg.Telemetry.Endpoint = "collector.internal:4318"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ErrorsAggregated(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Log.Level = "verbose"
	cfg.Client.Timeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	// All sections report, not just the first failure.
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "client.timeout")
}
