package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/commercemesh/catalog-sync/internal/platform/logging"
)

// Jitter applied to each backoff delay, as a fraction of the delay.
const jitterFraction = 0.25

// doWithRetry sends the request, retrying transient failures with
// exponential backoff. The body is captured up front so every attempt can
// replay it — sync payloads and tag notifications are all small JSON
// bodies. The final response is written through resp; the caller closes it.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retryCfg.maxAttempts)
	}

	body, err := captureBody(req)
	if err != nil {
		return err
	}

	var lastErr error

	for attempt := range c.retryCfg.maxAttempts {
		if attempt > 0 {
			if err := c.sleepBeforeRetry(ctx, req, attempt, lastErr); err != nil {
				return err
			}
		}

		rewindBody(req, body)

		r, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !retryableError(err) {
				return err
			}
			continue
		}

		if !retryableStatus(r.StatusCode) {
			*resp = r
			return nil
		}

		lastErr = fmt.Errorf("HTTP %d from %s", r.StatusCode, c.serviceName)

		// Out of attempts: hand the response back so the caller can read
		// the downstream error body.
		if attempt == c.retryCfg.maxAttempts-1 {
			*resp = r
			return lastErr
		}

		// Drain so the connection can be reused by the next attempt.
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}

	return lastErr
}

// captureBody consumes the request body into a replayable buffer. A nil
// body stays nil.
func captureBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	_ = req.Body.Close()

	return body, nil
}

// rewindBody installs a fresh reader over the captured body bytes.
func rewindBody(req *http.Request, body []byte) {
	if body == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
}

// sleepBeforeRetry waits out the backoff delay for the given attempt,
// logging the retry at WARN. Cancellation cuts the wait short.
func (c *Client) sleepBeforeRetry(ctx context.Context, req *http.Request, attempt int, lastErr error) error {
	delay := nextDelay(attempt, c.retryCfg)

	logging.FromContext(ctx).WarnContext(ctx, "retrying HTTP request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.String("peer_service", c.serviceName),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", c.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// nextDelay computes the backoff for the attempt-th retry (1-indexed):
// initial * multiplier^(attempt-1), capped at the max interval, with ±25%
// jitter so synchronized callers spread out.
func nextDelay(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))
	delay = math.Min(delay, float64(cfg.maxInterval))

	jitter := delay * jitterFraction * (2*rand.Float64() - 1)
	delay = math.Max(delay+jitter, 0)

	return time.Duration(delay)
}

// retryableError reports whether a transport error is worth another
// attempt. Cancellation and deadline expiry are the caller giving up, never
// retried; network failures and anything unidentified are.
func retryableError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// retryableStatus reports whether a downstream status is transient: 5xx
// responses and 429 from a rate-limited backend.
func retryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}
