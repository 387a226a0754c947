package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/adapters/http/dto"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// InvalidateHandler handles the cache gateway hook called by the commerce
// backend's event subscribers.
type InvalidateHandler struct {
	gateway ports.CacheGateway
	secret  string
	logger  *slog.Logger
}

// NewInvalidateHandler creates an InvalidateHandler.
func NewInvalidateHandler(gateway ports.CacheGateway, secret string, logger *slog.Logger) *InvalidateHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InvalidateHandler{gateway: gateway, secret: secret, logger: logger}
}

// Invalidate handles POST /hooks/cache/invalidate. Tags resolve to cache key
// patterns; requests with no recognized tags fall back to the default
// pattern set, and invalidateAll purges everything.
func (h *InvalidateHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if err := authorize(r, h.secret); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.InvalidateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.gateway.Invalidate(r.Context(), ports.InvalidationRequest{
		Tags:          req.Tags,
		InvalidateAll: req.InvalidateAll,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "cache invalidation failed",
			slog.String("operation", "Invalidate"),
			slog.Any("tags", req.Tags),
			slog.Bool("invalidate_all", req.InvalidateAll),
			slog.Any("error", err),
		)
		writeJSON(w, http.StatusInternalServerError, dto.InvalidateErrorResponse{
			Success:   false,
			Message:   "Failed to invalidate cache",
			Error:     err.Error(),
			Timestamp: dto.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.InvalidateResponse{
		Success:     true,
		Invalidated: result.Invalidated,
		Message:     result.Message,
		Timestamp:   dto.Now(),
	})
}
