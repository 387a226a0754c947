// Package handlers contains the inbound HTTP handlers for the sync,
// invalidation, revalidation, and health endpoints.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/adapters/http/dto"
	"github.com/commercemesh/catalog-sync/internal/domain"
)

// SecretHeader carries the shared revalidation secret on every authenticated
// endpoint. The header value is compared byte-for-byte against the configured
// secret.
const SecretHeader = "x-revalidate-secret"

// authorize checks the shared-secret header. An empty configured secret
// rejects every caller rather than opening the endpoint.
func authorize(r *http.Request, secret string) error {
	if secret == "" || r.Header.Get(SecretHeader) != secret {
		return domain.ErrUnauthorized
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// Inbound bodies are tag lists and sync triggers; 1 MB is generous.
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody reads the capped request body as JSON into dst, answering
// 400 and returning false when it cannot be parsed.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Message: "Error parsing request body",
		})
		return false
	}
	return true
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
