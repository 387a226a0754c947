package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
)

// Requester centralizes the HTTP request lifecycle for outbound clients:
// request creation, JSON marshaling, execution via httpclient.Client,
// response body cleanup, status validation, error translation, and JSON
// decoding. Any 2xx status is treated as success.
type Requester struct {
	client  *httpclient.Client
	headers map[string]string
	logger  *slog.Logger
}

// NewRequester creates a Requester backed by the given HTTP client. The
// headers map is applied to every outbound request (auth headers and the
// like); it may be nil.
func NewRequester(client *httpclient.Client, headers map[string]string, logger *slog.Logger) *Requester {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Requester{client: client, headers: headers, logger: logger}
}

// BaseURL returns the base URL from the underlying HTTP client.
func (r *Requester) BaseURL() string {
	return r.client.BaseURL()
}

// Get executes a GET against path and decodes the response into respBody.
func (r *Requester) Get(ctx context.Context, path string, respBody any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.client.BaseURL()+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating GET request for %s: %w", path, err)
	}
	return r.execute(req, respBody)
}

// Do executes a request carrying a JSON body (POST, PUT, or PATCH) and
// decodes the response into respBody when non-nil.
func (r *Requester) Do(ctx context.Context, method, path string, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling %s body for %s: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.client.BaseURL()+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request for %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return r.execute(req, respBody)
}

// closeBody closes an HTTP response body and logs on failure.
func (r *Requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

// execute sends the request, checks for a 2xx status, and optionally decodes
// the response body. It ensures resp.Body is always closed.
func (r *Requester) execute(req *http.Request, respBody any) error {
	for name, value := range r.headers {
		req.Header.Set(name, value)
	}

	resp, err := r.client.Do(req.Context(), req)
	if err != nil {
		// httpclient.Do can return both resp and err when retries are
		// exhausted on a retryable status. Translate the HTTP response
		// into a domain error rather than returning the raw retry error.
		if resp != nil {
			defer r.closeBody(req.Context(), resp)
			if !is2xx(resp.StatusCode) {
				return TranslateHTTPError(resp)
			}
		}
		r.logger.ErrorContext(req.Context(), "request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer r.closeBody(req.Context(), resp)

	if !is2xx(resp.StatusCode) {
		translateErr := TranslateHTTPError(resp)
		r.logger.ErrorContext(req.Context(), "unexpected status",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
		)
		return translateErr
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("decoding response from %s %s: %w", req.Method, req.URL.Path, err)
		}
	}

	return nil
}

func is2xx(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
