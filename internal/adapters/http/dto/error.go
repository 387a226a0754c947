package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/commercemesh/catalog-sync/internal/domain"
)

// ErrorResponse is the error body shared by all endpoints except the
// bespoke invalidate/revalidate failure shapes.
type ErrorResponse struct {
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail pins one validation failure to its request location.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// NewErrorResponse maps a domain error onto the wire shape. Unauthorized
// always reads "Invalid secret" — the body must not reveal whether a secret
// is even configured. Validation errors expand into per-field details,
// sorted so the output is stable.
func NewErrorResponse(err error) ErrorResponse {
	if errors.Is(err, domain.ErrUnauthorized) {
		return ErrorResponse{Message: "Invalid secret"}
	}

	resp := ErrorResponse{Message: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			resp.Errors = append(resp.Errors, ErrorDetail{
				Location: "body." + field,
				Message:  msg,
			})
		}
		sort.Slice(resp.Errors, func(i, j int) bool {
			return resp.Errors[i].Location < resp.Errors[j].Location
		})
	}

	return resp
}

// WriteErrorResponse sends the mapped status and JSON body for a domain
// error.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))

	if encErr := json.NewEncoder(w).Encode(NewErrorResponse(err)); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// statusFor translates the domain error taxonomy into HTTP. ErrUnavailable
// becomes 502 because it always means a backend, not this service, failed.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
