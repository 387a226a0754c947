package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/adapters/http/dto"
	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// SyncHandler handles the admin endpoints that trigger entity sync runs.
type SyncHandler struct {
	sync   ports.CatalogSync
	secret string
	logger *slog.Logger
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(sync ports.CatalogSync, secret string, logger *slog.Logger) *SyncHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SyncHandler{sync: sync, secret: secret, logger: logger}
}

// SyncCategories handles POST /admin/sync/categories.
func (h *SyncHandler) SyncCategories(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "categories", h.sync.SyncCategories)
}

// SyncCollections handles POST /admin/sync/collections.
func (h *SyncHandler) SyncCollections(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "collections", h.sync.SyncCollections)
}

// SyncProducts handles POST /admin/sync/products.
func (h *SyncHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "products", h.sync.SyncProducts)
}

func (h *SyncHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	entity string,
	sync func(ctx context.Context, ids []string) ([]domain.Document, error),
) {
	if err := authorize(r, h.secret); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.SyncRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := sync(r.Context(), req.IDs)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "sync run failed",
			slog.String("operation", "Sync"),
			slog.String("entity", entity),
			slog.Int("requested", len(req.IDs)),
			slog.Any("error", err),
		)
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SyncResponse{
		Success:   true,
		Entity:    entity,
		Requested: len(req.IDs),
		Synced:    len(updated),
		Timestamp: dto.Now(),
	})
}
