package app

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/platform/telemetry"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// Revalidation endpoint paths on the two downstream targets.
const (
	storefrontRevalidatePath = "/api/revalidate"
	gatewayInvalidatePath    = "/hooks/cache/invalidate"
)

// DispatchConfig holds the dispatcher's target addresses and shared secret.
// Both URLs are optional; an unset URL skips that target with a warning. A
// missing secret degrades every dispatch to a logged no-op.
type DispatchConfig struct {
	StorefrontURL string
	GatewayURL    string
	Secret        string
}

// Compile-time check that RevalidationDispatcher implements ports.Dispatcher.
var _ ports.Dispatcher = (*RevalidationDispatcher)(nil)

// RevalidationDispatcher notifies every registered downstream cache that a
// set of tags changed. Targets are attempted independently — a storefront
// failure never prevents the gateway notification — and all errors are
// logged, never returned. The contract is best-effort notify.
type RevalidationDispatcher struct {
	notifier ports.Notifier
	cfg      DispatchConfig
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// NewRevalidationDispatcher creates a dispatcher. metrics may be nil.
func NewRevalidationDispatcher(
	notifier ports.Notifier,
	cfg DispatchConfig,
	logger *slog.Logger,
	metrics *telemetry.Metrics,
) *RevalidationDispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RevalidationDispatcher{notifier: notifier, cfg: cfg, logger: logger, metrics: metrics}
}

// Dispatch fans the tag set out to the storefront and the cache gateway.
func (d *RevalidationDispatcher) Dispatch(ctx context.Context, tags []domain.Tag) {
	if len(tags) == 0 {
		return
	}
	if d.cfg.Secret == "" {
		d.logger.WarnContext(ctx, "revalidation secret not configured, skipping dispatch")
		return
	}

	d.notify(ctx, "storefront", d.cfg.StorefrontURL, storefrontRevalidatePath, tags)
	d.notify(ctx, "commerce-cache", d.cfg.GatewayURL, gatewayInvalidatePath, tags)
}

func (d *RevalidationDispatcher) notify(ctx context.Context, target, baseURL, path string, tags []domain.Tag) {
	if baseURL == "" {
		d.logger.WarnContext(ctx, "revalidation target not configured, skipping",
			slog.String("target", target),
		)
		return
	}

	result := "success"
	if err := d.notifier.PostTags(ctx, baseURL+path, tags); err != nil {
		result = "error"
		d.logger.ErrorContext(ctx, "revalidation notification failed",
			slog.String("target", target),
			slog.Any("tags", tags),
			slog.Any("error", err),
		)
	} else {
		d.logger.DebugContext(ctx, "revalidation notified",
			slog.String("target", target),
			slog.Any("tags", tags),
		)
	}

	if d.metrics != nil {
		d.metrics.NotificationTotal.Add(ctx, 1, metric.WithAttributes(
			telemetry.AttrTarget.String(target),
			telemetry.AttrResult.String(result),
		))
	}
}
