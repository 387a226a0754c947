// Package httpclient is the outbound HTTP layer shared by the commerce,
// content, and revalidation clients. Every request runs through the same
// pipeline:
//
//	circuit breaker → rate limiter → ID headers → client span → retry → HTTP
//
// A client is built once per downstream at startup:
//
//	client := httpclient.New(&cfg.Client, "commerce-api", cfg.Sync.CommerceURL, metrics, logger)
//
// and used via Do with a caller-built request:
//
//	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
//	resp, err := client.Do(ctx, req)
//
// The inbound middleware stores request and correlation IDs in the context
// with WithRequestID and WithCorrelationID; Do copies them onto the wire so
// both backends see the same chain of identifiers.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/commercemesh/catalog-sync/internal/platform/config"
	"github.com/commercemesh/catalog-sync/internal/platform/telemetry"
)

const tracerName = "github.com/commercemesh/catalog-sync/internal/platform/httpclient"

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
)

// WithRequestID stores the request ID that outbound calls should carry as
// X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithCorrelationID stores the correlation ID that outbound calls should
// carry as X-Correlation-ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// retryConfig mirrors config.RetryConfig without exposing the config
// package through this one's API.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Client wraps http.Client with the outbound pipeline described in the
// package doc. One Client per downstream; safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	serviceName string
	breaker     *gobreaker.CircuitBreaker[struct{}]
	limiter     *rate.Limiter // nil when rate limiting is disabled
	retryCfg    retryConfig
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

// New builds a client for one downstream. serviceName labels the downstream
// in traces, metrics, and breaker logs; baseURL is the scheme://host[:port]
// prefix callers resolve paths against. Nil metrics disables metric
// recording.
func New(cfg *config.ClientConfig, serviceName, baseURL string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: clampUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     baseURL,
		serviceName: serviceName,
		breaker:     breaker,
		limiter:     limiter,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Do runs the request through the full pipeline.
//
// On success resp is non-nil with an open body the caller must close. When
// retries are exhausted on a retryable status, resp carries the last
// downstream response alongside a non-nil error so the caller can read the
// error body. Breaker rejections and transport failures return a nil resp.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	method := req.Method

	var resp *http.Response
	_, err := c.breaker.Execute(func() (struct{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return struct{}{}, err
			}
		}

		c.stampIDs(ctx, req)

		spanCtx, span := c.openSpan(ctx, req)
		defer span.End()

		// The span context drives cancellation and trace propagation for
		// every retry attempt.
		req = req.WithContext(spanCtx)

		retryErr := c.doWithRetry(spanCtx, req, &resp)

		if resp != nil {
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		}
		if retryErr != nil {
			span.RecordError(retryErr)
			span.SetStatus(codes.Error, retryErr.Error())
		}
		return struct{}{}, retryErr
	})

	// Recorded outside the breaker so open-circuit rejections show up too.
	c.recordOutcome(ctx, method, start, resp, err)

	return resp, err
}

// BaseURL reports the configured downstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Name reports the downstream label. With HealthCheck it makes Client a
// ports.HealthChecker without importing the ports package.
func (c *Client) Name() string {
	return c.serviceName
}

// HealthCheck reports the downstream's availability from the breaker state
// alone, without a network call: closed is healthy, half-open is degraded,
// open is failing. This measures the downstream, not this service — the
// service keeps accepting requests while a backend is down.
func (c *Client) HealthCheck(_ context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.serviceName)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.serviceName)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.serviceName, state)
	}
}

// stampIDs copies the inbound request and correlation IDs onto the outbound
// request when the context carries them.
func (c *Client) stampIDs(ctx context.Context, req *http.Request) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}
}

// openSpan starts the client span and injects W3C trace context into the
// outbound headers.
func (c *Client) openSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := otel.GetTracerProvider().Tracer(tracerName).Start(ctx,
		"HTTP "+req.Method+" "+c.serviceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return ctx, span
}

func (c *Client) recordOutcome(ctx context.Context, method string, start time.Time, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	status := 0
	result := "error"
	if resp != nil {
		status = resp.StatusCode
		if status < http.StatusBadRequest {
			result = "success"
		}
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		result = "circuit_open"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.serviceName),
		telemetry.AttrResult.String(result),
	)
	c.metrics.ClientRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}

// clampUint32 narrows a config int for gobreaker, treating negatives as
// zero.
func clampUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
