package ports

import (
	"context"

	"github.com/commercemesh/catalog-sync/internal/domain"
)

// ContentStore is the client port for the content backend's document API.
// Implementations back onto the content management system's REST interface
// or an in-memory store for local profiles and tests.
type ContentStore interface {
	// Find returns the current state of the documents with the given ids
	// in the named collection. Missing ids are omitted, not errors; the
	// upsert step snapshots whatever exists.
	Find(ctx context.Context, collection string, ids []string) ([]domain.Document, error)

	// Update applies the given non-id fields to the document with the
	// given id and returns the updated document. Field validation
	// failures surface as domain.ErrValidation; a missing document as
	// domain.ErrNotFound.
	Update(ctx context.Context, collection, id string, fields map[string]any) (*domain.Document, error)
}

// PatternCache is the commerce backend's query cache, purged by key glob
// pattern. "*" purges everything.
type PatternCache interface {
	Invalidate(ctx context.Context, pattern string) error
}

// TagCache is the storefront's page cache, invalidated by semantic tag.
type TagCache interface {
	Revalidate(ctx context.Context, tag domain.Tag) error
}

// LifecycleEvent identifies which content mutation fired a hook.
type LifecycleEvent string

const (
	EventAfterCreate LifecycleEvent = "after-create"
	EventAfterUpdate LifecycleEvent = "after-update"
	EventAfterDelete LifecycleEvent = "after-delete"
)

// LifecycleHook is invoked after a content document changes. Hooks must not
// fail the triggering write; implementations swallow their own errors.
type LifecycleHook func(ctx context.Context, event LifecycleEvent, collection string, doc domain.Document)

// HookRegistrar is implemented by content stores that can fire lifecycle
// hooks on document changes.
type HookRegistrar interface {
	RegisterHook(collection string, hook LifecycleHook)
}
