// Package logging builds the service's slog loggers and moves them through
// request contexts.
//
// The root logger is built once at startup:
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//
// and the HTTP middleware derives a per-request child carrying request_id
// and correlation_id:
//
//	ctx = logging.WithLogger(ctx, child)
//	logging.FromContext(ctx).InfoContext(ctx, "sync started")
//
// Error logs name the operation and the entity involved and attach the full
// error chain with slog.Any("error", err); secrets are scrubbed by the
// redaction layer in redact.go before anything reaches the sink.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type loggerKey struct{}

// levelNames maps the config strings to slog levels. Anything else falls
// back to info.
var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New builds a logger writing to w. format "text" selects the text handler,
// anything else JSON. Debug level also turns on source locations, which is
// worth the overhead only when someone is actively digging.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl, ok := levelNames[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: redactAttr(),
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger stores logger in the context for FromContext to find.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the context's logger, or slog.Default() when none was
// stored.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
