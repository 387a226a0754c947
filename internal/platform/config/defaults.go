package config

const (
	defaultServerPort = 9000

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML,
// and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"sync.secret":         "",
		"sync.storefront_url": "",
		"sync.gateway_url":    "",
		"sync.commerce_url":   "",
		"sync.content_url":    "",
		"sync.cache_enabled":  true,

		"client.timeout":                          "30s",
		"client.retry.max_attempts":               defaultRetryMaxAttempts,
		"client.retry.initial_interval":           "100ms",
		"client.retry.max_interval":               "10s",
		"client.retry.multiplier":                 defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":     defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":          "30s",
		"client.circuit_breaker.half_open_limit":  defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":   0.0,
		"client.rate_limit.burst_size":            0,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "catalog-sync",
	}
}
