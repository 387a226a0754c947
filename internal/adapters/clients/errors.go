// Package clients contains the outbound HTTP adapters for the commerce
// backend's query API, the content backend's document API, and the
// revalidation notifier. Downstream representations are translated to
// domain types at this boundary; HTTP failures are mapped to domain errors.
package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/domain"
)

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20 // 1 MB

// apiError is the error body shape shared by both backends: a top-level
// message, or a Payload-style errors array.
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// TranslateHTTPError maps an HTTP error response to a domain error, using
// the response body's message for context when one is present.
func TranslateHTTPError(resp *http.Response) error {
	detail := parseErrorMessage(resp)
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, domain.ErrNotFound)

	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", detail, domain.ErrValidation)

	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s: %w", detail, domain.ErrConflict)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", detail, domain.ErrUnauthorized)

	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", detail, domain.ErrUnavailable)

	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
}

// parseErrorMessage attempts to extract a human-readable message from the
// response body. Returns "" when none is found.
func parseErrorMessage(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return ""
	}

	var ae apiError
	if err := json.Unmarshal(body, &ae); err != nil {
		return ""
	}
	if ae.Message != "" {
		return ae.Message
	}
	if len(ae.Errors) > 0 {
		return ae.Errors[0].Message
	}
	return ""
}
