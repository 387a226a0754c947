// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/commercemesh/catalog-sync/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	invalidateHandler *handlers.InvalidateHandler,
	revalidateHandler *handlers.RevalidateHandler,
	syncHandler *handlers.SyncHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints.
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Cache gateway hook, called by the commerce backend's event subscriber.
	r.Post("/hooks/cache/invalidate", invalidateHandler.Invalidate)

	// Storefront revalidation endpoint, called by content backend hooks.
	r.Post("/api/revalidate", revalidateHandler.Revalidate)

	// Admin sync triggers.
	r.Route("/admin/sync", func(r chi.Router) {
		r.Post("/categories", syncHandler.SyncCategories)
		r.Post("/collections", syncHandler.SyncCollections)
		r.Post("/products", syncHandler.SyncProducts)
	})

	return r
}
