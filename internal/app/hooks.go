package app

import (
	"context"
	"log/slog"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// BindRevalidationHooks attaches a lifecycle hook to each content
// collection that dispatches that collection's tag after any document
// change. Every change triggers a full-tag invalidation regardless of which
// fields changed; there is no payload inspection and no debouncing. Hooks
// never fail the triggering write — the dispatcher swallows all errors.
func BindRevalidationHooks(reg ports.HookRegistrar, dispatcher ports.Dispatcher, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, collection := range []string{
		domain.CollectionCollections,
		domain.CollectionCategories,
		domain.CollectionProducts,
	} {
		tag, ok := domain.TagForCollection(collection)
		if !ok {
			continue
		}
		reg.RegisterHook(collection, func(ctx context.Context, event ports.LifecycleEvent, collection string, _ domain.Document) {
			logger.DebugContext(ctx, "content change triggered revalidation",
				slog.String("collection", collection),
				slog.String("event", string(event)),
			)
			dispatcher.Dispatch(ctx, []domain.Tag{tag})
		})
	}
}
