package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/commercemesh/catalog-sync/internal/adapters/http/dto"
)

// errInternalServer is what a panicking handler turns into on the wire. The
// panic value and stack go to the log only.
var errInternalServer = errors.New("internal server error")

// Recovery converts handler panics into 500 responses. A panic mid-sync must
// not tear down the listener or leave the caller with a reset connection. If
// the handler already started writing the response, only the log entry is
// emitted.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				if !rw.headerPushed {
					dto.WriteErrorResponse(rw, r, errInternalServer)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
