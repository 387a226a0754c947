package dto

import "github.com/commercemesh/catalog-sync/internal/domain"

// InvalidateRequest is the body of POST /hooks/cache/invalidate, sent by the
// commerce backend's event subscribers.
type InvalidateRequest struct {
	Tags          []string `json:"tags"`
	InvalidateAll bool     `json:"invalidateAll"`
}

// Validate accepts any combination of fields; an empty request falls back to
// the default pattern set downstream.
func (r *InvalidateRequest) Validate() error {
	return nil
}

// RevalidateRequest is the body of POST /api/revalidate, sent by the content
// backend's collection hooks. A single tag and a tag list may be combined;
// the handler merges them.
type RevalidateRequest struct {
	Tag  string   `json:"tag"`
	Tags []string `json:"tags"`
}

// Validate accepts any shape; tag filtering happens in the handler so the
// response can report which tags would have been valid.
func (r *RevalidateRequest) Validate() error {
	return nil
}

// SyncRequest is the body of POST /admin/sync/{entity}.
type SyncRequest struct {
	IDs []string `json:"ids"`
}

// Validate requires at least one non-empty id.
func (r *SyncRequest) Validate() error {
	if len(r.IDs) == 0 {
		return &domain.ValidationError{
			Fields: map[string]string{"ids": "must contain at least one id"},
		}
	}
	for _, id := range r.IDs {
		if id == "" {
			return &domain.ValidationError{
				Fields: map[string]string{"ids": "must not contain empty ids"},
			}
		}
	}
	return nil
}
