package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/adapters/http/dto"
	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// RevalidateHandler handles the storefront revalidation endpoint called by
// the content backend's collection hooks.
type RevalidateHandler struct {
	cache  ports.TagCache
	secret string
	logger *slog.Logger
}

// NewRevalidateHandler creates a RevalidateHandler.
func NewRevalidateHandler(cache ports.TagCache, secret string, logger *slog.Logger) *RevalidateHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RevalidateHandler{cache: cache, secret: secret, logger: logger}
}

// Revalidate handles POST /api/revalidate. A single tag and a tag list may
// be combined; unknown tags are dropped and the remainder deduplicated in
// first-seen order. Per-tag cache failures are logged and skipped so one bad
// tag never blocks the rest.
func (h *RevalidateHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	if err := authorize(r, h.secret); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.RevalidateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	raw := make([]string, 0, len(req.Tags)+1)
	if req.Tag != "" {
		raw = append(raw, req.Tag)
	}
	raw = append(raw, req.Tags...)

	tags := domain.ParseTags(raw)
	if len(tags) == 0 {
		writeJSON(w, http.StatusBadRequest, dto.InvalidTagsResponse{
			Message:   "No valid tags provided",
			ValidTags: domain.ValidTagNames(),
		})
		return
	}

	revalidated := make([]string, 0, len(tags))
	for _, tag := range tags {
		if err := h.cache.Revalidate(r.Context(), tag); err != nil {
			h.logger.ErrorContext(r.Context(), "tag revalidation failed",
				slog.String("operation", "Revalidate"),
				slog.String("tag", string(tag)),
				slog.Any("error", err),
			)
			continue
		}
		revalidated = append(revalidated, string(tag))
	}

	writeJSON(w, http.StatusOK, dto.RevalidateResponse{
		Revalidated: true,
		Tags:        revalidated,
		Timestamp:   dto.Now(),
	})
}
