package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/commercemesh/catalog-sync/internal/platform/logging"
)

// Logging derives a per-request child logger carrying the request and
// correlation IDs, stashes it in the context for handlers and the sync
// service to pick up, and emits one completion line per request. At debug
// level the inbound headers are dumped too, with secrets redacted, which is
// the fastest way to see why a revalidation webhook is being rejected.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With(
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.String("correlation_id", CorrelationIDFromContext(r.Context())),
			)
			ctx := logging.WithLogger(r.Context(), reqLogger)

			if reqLogger.Enabled(ctx, slog.LevelDebug) {
				reqLogger.DebugContext(ctx, "request headers",
					slog.Any("headers", RedactHeaders(r.Header)),
				)
			}

			rw := newResponseWriter(w)
			start := time.Now()
			next.ServeHTTP(rw, r.WithContext(ctx))

			reqLogger.InfoContext(ctx, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
