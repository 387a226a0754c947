// Package middleware holds the HTTP middleware for the sync service's
// inbound surface. The router applies them outermost-first:
//
//	Recovery        panics become 500s instead of dropped connections
//	RequestID       every request gets (or keeps) an X-Request-ID
//	CorrelationID   cross-service correlation, falls back to the request ID
//	OpenTelemetry   server spans around each request
//	Logging         per-request child logger plus a completion log line
//	Timeout         bounds handler time so slow backends cannot pin requests
package middleware

import "net/http"

// responseWriter records the status code and byte count so the logging and
// tracing middleware can report what the handler actually sent.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	headerPushed bool
	written      int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	// 200 is what net/http sends when the handler never calls WriteHeader.
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerPushed {
		return
	}
	rw.statusCode = code
	rw.headerPushed = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerPushed {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach Flush and friends on the
// underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
