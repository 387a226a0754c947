package ports

import (
	"context"

	"github.com/commercemesh/catalog-sync/internal/domain"
)

// CatalogSync is the service port for the entity synchronization workflows.
// Implemented by the application layer; called by inbound adapters.
//
// Each method runs one workflow: fetch a strict projection for the given
// commerce ids, drop entities without a linked content document, map the
// remainder to content fields, and upsert them with rollback on failure.
// The returned slice holds the updated content documents; it is empty (not
// nil) when every entity was filtered out.
type CatalogSync interface {
	// SyncCategories synchronizes product categories.
	// Returns domain.ErrNotFound if any id is missing upstream.
	SyncCategories(ctx context.Context, ids []string) ([]domain.Document, error)

	// SyncCollections synchronizes product collections.
	SyncCollections(ctx context.Context, ids []string) ([]domain.Document, error)

	// SyncProducts synchronizes products, including option and variant
	// structure.
	SyncProducts(ctx context.Context, ids []string) ([]domain.Document, error)
}

// InvalidationRequest is the cache gateway's inbound contract.
type InvalidationRequest struct {
	Tags          []string
	InvalidateAll bool
}

// InvalidationResult reports what the gateway purged. Invalidated lists the
// patterns that were successfully purged; Message is set instead when the
// request was satisfied without pattern resolution (invalidate-all, or no
// cache backend configured).
type InvalidationResult struct {
	Invalidated []string
	Message     string
}

// CacheGateway is the service port for tag-based cache invalidation against
// the commerce query cache.
type CacheGateway interface {
	Invalidate(ctx context.Context, req InvalidationRequest) (*InvalidationResult, error)
}

// Dispatcher fans a tag set out to every registered downstream cache. The
// contract is best-effort notify: targets are attempted independently and
// failures are logged, never returned.
type Dispatcher interface {
	Dispatch(ctx context.Context, tags []domain.Tag)
}
