// Package dto defines the JSON request and response shapes of the inbound
// HTTP API. Timestamps are Unix milliseconds to match what the storefront
// and commerce subscribers already consume.
package dto

import "time"

// InvalidateResponse is the success body of POST /hooks/cache/invalidate.
// Invalidated lists the patterns actually purged; Message is set instead
// when no purge ran (no cache backend, or a full flush).
type InvalidateResponse struct {
	Success     bool     `json:"success"`
	Invalidated []string `json:"invalidated,omitempty"`
	Message     string   `json:"message,omitempty"`
	Timestamp   int64    `json:"timestamp"`
}

// InvalidateErrorResponse is the 500 body of POST /hooks/cache/invalidate.
type InvalidateErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// RevalidateResponse is the success body of POST /api/revalidate.
type RevalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Tags        []string `json:"tags"`
	Timestamp   int64    `json:"timestamp"`
}

// InvalidTagsResponse is the 400 body of POST /api/revalidate when no
// requested tag names a known content collection.
type InvalidTagsResponse struct {
	Message   string   `json:"message"`
	ValidTags []string `json:"validTags"`
}

// SyncResponse is the success body of POST /admin/sync/{entity}.
type SyncResponse struct {
	Success   bool   `json:"success"`
	Entity    string `json:"entity"`
	Requested int    `json:"requested"`
	Synced    int    `json:"synced"`
	Timestamp int64  `json:"timestamp"`
}

// Now returns the current time as Unix milliseconds for response timestamps.
func Now() int64 {
	return time.Now().UnixMilli()
}
