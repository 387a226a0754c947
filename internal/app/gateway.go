package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/platform/telemetry"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// Compile-time check that GatewayService implements ports.CacheGateway.
var _ ports.CacheGateway = (*GatewayService)(nil)

// GatewayService translates semantic tags into cache-key glob patterns and
// purges them from the commerce query cache. Purging is best-effort: a
// pattern that fails to purge is logged and skipped, and the result lists
// only patterns that actually purged.
type GatewayService struct {
	cache   ports.PatternCache // nil when no cache backend is configured
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewGatewayService creates a GatewayService. cache may be nil: absence of
// a cache backend is not an error, every request then succeeds with an
// explanatory message. metrics may also be nil.
func NewGatewayService(cache ports.PatternCache, logger *slog.Logger, metrics *telemetry.Metrics) *GatewayService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GatewayService{cache: cache, logger: logger, metrics: metrics}
}

// Invalidate resolves the request's tags to patterns and purges them.
// Requests with no valid tags fall back to the broad pattern set. An
// invalidate-all request purges everything unconditionally; its failure is
// the only purge error surfaced to the caller.
func (g *GatewayService) Invalidate(ctx context.Context, req ports.InvalidationRequest) (*ports.InvalidationResult, error) {
	if g.cache == nil {
		return &ports.InvalidationResult{Message: "No cache module configured"}, nil
	}

	if req.InvalidateAll {
		if err := g.cache.Invalidate(ctx, "*"); err != nil {
			return nil, fmt.Errorf("invalidating all cache entries: %w", err)
		}
		g.recordPurge(ctx, "success", 1)
		return &ports.InvalidationResult{Message: "All cache invalidated"}, nil
	}

	patterns := domain.CollectPatterns(req.Tags)
	if len(patterns) == 0 {
		patterns = domain.FallbackPatterns
	}

	invalidated := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if err := g.cache.Invalidate(ctx, pattern); err != nil {
			g.logger.WarnContext(ctx, "failed to invalidate pattern",
				slog.String("pattern", pattern),
				slog.Any("error", err),
			)
			g.recordPurge(ctx, "error", 1)
			continue
		}
		invalidated = append(invalidated, pattern)
	}
	g.recordPurge(ctx, "success", int64(len(invalidated)))

	return &ports.InvalidationResult{Invalidated: invalidated}, nil
}

func (g *GatewayService) recordPurge(ctx context.Context, result string, n int64) {
	if g.metrics == nil || n == 0 {
		return
	}
	g.metrics.InvalidationTotal.Add(ctx, n, metric.WithAttributes(
		telemetry.AttrResult.String(result),
	))
}
