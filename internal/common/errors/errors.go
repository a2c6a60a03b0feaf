// Package errors defines the closed set of error kinds used across the core:
// validation, not-found, conflict and provider-dispatch. Transport layers map
// kinds to status codes through HTTPStatus instead of inspecting concrete types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Kind is a standardized internal error classification.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_FAILED"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindProviderDispatch Kind = "PROVIDER_DISPATCH_FAILED"
)

// httpStatusByKind is the single mapping table from error kind to transport
// status. Unknown kinds fall back to 500.
var httpStatusByKind = map[Kind]int{
	KindValidation:       http.StatusUnprocessableEntity,
	KindNotFound:         http.StatusNotFound,
	KindConflict:         http.StatusConflict,
	KindProviderDispatch: http.StatusBadGateway,
}

// FieldError is one entry of a multi-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of per-field failures for one input.
// It is raised before any side effect occurs.
type ValidationError struct {
	Details []FieldError `json:"details"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field error(s)", len(e.Details))
}

func (e *ValidationError) Kind() Kind { return KindValidation }

// Has reports whether the detail list contains an entry for the given field path.
func (e *ValidationError) Has(field string) bool {
	for _, d := range e.Details {
		if d.Field == field {
			return true
		}
	}
	return false
}

// NewValidation builds a ValidationError from field/message pairs, sorted by
// field so the detail list is deterministic.
func NewValidation(details ...FieldError) *ValidationError {
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return &ValidationError{Details: details}
}

// NotFoundError signals that no aggregate or template matched the lookup.
type NotFoundError struct {
	Resource string
	Details  string
}

func (e *NotFoundError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Details)
}

func (e *NotFoundError) Kind() Kind { return KindNotFound }

func NewNotFound(resource, details string) *NotFoundError {
	return &NotFoundError{Resource: resource, Details: details}
}

// ConflictError surfaces a uniqueness violation reported by the backing store.
// Check-then-insert paths rely on store-level unique constraints; this is how
// those violations come back to callers.
type ConflictError struct {
	Resource string
	Details  string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Details)
}

func (e *ConflictError) Kind() Kind { return KindConflict }

func (e *ConflictError) Unwrap() error { return e.Err }

func NewConflict(resource, details string, err error) *ConflictError {
	return &ConflictError{Resource: resource, Details: details, Err: err}
}

// ProviderDispatchError is an opaque wrapper around an external send failure.
// The original transport error stays reachable through Unwrap.
type ProviderDispatchError struct {
	Provider string
	Err      error
}

func (e *ProviderDispatchError) Error() string {
	return fmt.Sprintf("provider %s dispatch failed: %v", e.Provider, e.Err)
}

func (e *ProviderDispatchError) Kind() Kind { return KindProviderDispatch }

func (e *ProviderDispatchError) Unwrap() error { return e.Err }

func NewProviderDispatch(provider string, err error) *ProviderDispatchError {
	return &ProviderDispatchError{Provider: provider, Err: err}
}

type kinder interface {
	Kind() Kind
}

// KindOf extracts the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

// HTTPStatus resolves the transport status for err via the kind mapping table.
func HTTPStatus(err error) int {
	if status, ok := httpStatusByKind[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsValidation reports whether err is a multi-field validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a missing aggregate or template.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a store uniqueness violation.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
