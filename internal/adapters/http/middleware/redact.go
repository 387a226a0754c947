package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/commercemesh/catalog-sync/internal/platform/logging"
)

// RedactHeaders flattens an http.Header into slog attrs for the debug-level
// request dump. Credential headers — the set is owned by the logging
// package so both layers agree — come through as "[REDACTED]"; everything
// else is passed along, multi-value headers joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for key, vals := range headers {
		if logging.SensitiveHeaders[strings.ToLower(key)] {
			attrs = append(attrs, slog.String(key, "[REDACTED]"))
			continue
		}
		attrs = append(attrs, slog.String(key, strings.Join(vals, ",")))
	}
	return attrs
}
