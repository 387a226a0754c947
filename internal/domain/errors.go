package domain

import (
	"errors"
	"fmt"
	"strings"
)

// The error taxonomy every layer maps onto. Adapters translate backend HTTP
// statuses into these; the DTO layer translates them back out.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
)

// ValidationError carries field-level detail for failures raised at the
// content store boundary: handle format, featured uniqueness, immutable
// commerce references. It matches ErrValidation under errors.Is; use
// errors.As to reach Fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
