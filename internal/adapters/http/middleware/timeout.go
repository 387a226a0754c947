package middleware

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"
)

// Timeout bounds how long a handler may run. The sync trigger endpoints fan
// out to the commerce and content backends, so a stuck downstream must not
// pin the inbound request forever: when the deadline passes the client gets
// a 504 and the handler's context is canceled so its outbound calls unwind.
//
// The handler runs on its own goroutine and writes into a buffer; whichever
// of the handler or the deadline finishes first owns the real writer.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{dst: w}
			done := make(chan struct{})

			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				dw.mu.Lock()
				dw.flush()
				dw.mu.Unlock()
			case <-ctx.Done():
				dw.mu.Lock()
				if !dw.timedOut {
					dw.timedOut = true
					w.WriteHeader(http.StatusGatewayTimeout)
				}
				dw.mu.Unlock()
			}
		})
	}
}

// deadlineWriter accumulates the handler's response without touching the
// underlying writer, so the timeout path can still claim it. Once timedOut
// is set the buffer is discarded. The mutex covers both goroutines.
type deadlineWriter struct {
	dst         http.ResponseWriter
	mu          sync.Mutex
	header      http.Header
	body        []byte
	status      int
	wroteHeader bool
	timedOut    bool
}

func (dw *deadlineWriter) Header() http.Header {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.header == nil {
		dw.header = make(http.Header)
	}
	return dw.header
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.wroteHeader {
		return
	}
	dw.status = code
	dw.wroteHeader = true
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !dw.wroteHeader {
		dw.status = http.StatusOK
		dw.wroteHeader = true
	}
	dw.body = append(dw.body, b...)
	return len(b), nil
}

// flush replays the buffered response onto the real writer. Caller holds
// dw.mu.
func (dw *deadlineWriter) flush() {
	if dw.timedOut {
		return
	}
	if dw.header != nil {
		maps.Copy(dw.dst.Header(), dw.header)
	}
	if dw.wroteHeader {
		dw.dst.WriteHeader(dw.status)
	}
	if len(dw.body) > 0 {
		_, _ = dw.dst.Write(dw.body)
	}
}
