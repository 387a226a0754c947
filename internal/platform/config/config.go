// Package config provides configuration loading and validation for the
// service. Configuration is loaded from YAML files with environment variable
// overrides using a layered system: defaults -> base.yaml -> {profile}.yaml
// -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Sync      SyncConfig      `koanf:"sync"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SyncConfig holds the synchronization pipeline's addresses and shared
// secret. All addresses are optional: an unset storefront or gateway URL
// skips that notification target, an unset content URL selects the
// in-memory content store, and cache_enabled toggles the commerce query
// cache backend. A missing secret degrades every outbound notification to
// a logged no-op and leaves inbound endpoints rejecting all callers.
type SyncConfig struct {
	Secret        string `koanf:"secret"`
	StorefrontURL string `koanf:"storefront_url"`
	GatewayURL    string `koanf:"gateway_url"`
	CommerceURL   string `koanf:"commerce_url"`
	ContentURL    string `koanf:"content_url"`
	CacheEnabled  bool   `koanf:"cache_enabled"`
}

// ClientConfig holds downstream HTTP client settings, shared by the
// commerce, content, and notification clients.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds outbound rate limiter settings. A zero
// RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
