package ports

import (
	"context"

	"github.com/commercemesh/catalog-sync/internal/domain"
)

// CommerceQuery is the client port for the commerce backend's query
// interface. Each method fetches a fixed field projection for the given
// entity ids in strict mode: if any requested id does not exist, the call
// fails with domain.ErrNotFound naming the missing id, and no partial
// result is returned.
type CommerceQuery interface {
	// Categories fetches category projections, including the linked
	// content document reference when present.
	Categories(ctx context.Context, ids []string) ([]domain.Category, error)

	// Collections fetches collection projections.
	Collections(ctx context.Context, ids []string) ([]domain.Collection, error)

	// Products fetches product projections with options, variants, and
	// nested variant option values.
	Products(ctx context.Context, ids []string) ([]domain.Product, error)
}

// Notifier delivers a tag list to a revalidation endpoint with the shared
// secret header. Implementations perform a single POST through the
// instrumented HTTP client; retries and timeouts are the client's concern.
type Notifier interface {
	PostTags(ctx context.Context, url string, tags []domain.Tag) error
}
