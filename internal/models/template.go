package models

import (
	"time"

	apperrors "notifyhub/internal/common/errors"
)

// Template is a notification template. Tenant templates override the
// platform-owned default for the same (context, language, channel) tuple; the
// default is the single row with no tenant. Templates are provisioned out of
// band and read-only to the core.
type Template struct {
	ID        ID
	TenantID  TenantID // empty means global default
	Context   Context
	Language  Language
	Channel   Channel
	Subject   string // placeholder string, {{name}} style
	Body      string // placeholder string, rendered as rich content
	IsDefault bool
	Status    EntityStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsActive is the uniform predicate every query path applies: not
// soft-deleted and status active.
func (t *Template) IsActive() bool {
	return t.DeletedAt == nil && t.Status == StatusActive
}

// Validate enforces the default/tenant invariant: exactly the tenant-less
// row may be marked as default.
func (t *Template) Validate() error {
	var details []apperrors.FieldError

	if t.ID.IsZero() {
		details = append(details, apperrors.FieldError{Field: "id", Message: "required"})
	}
	if t.Context == "" {
		details = append(details, apperrors.FieldError{Field: "context", Message: "required"})
	}
	if t.Language == "" {
		details = append(details, apperrors.FieldError{Field: "language", Message: "required"})
	}
	if _, err := ParseChannel(t.Channel.String()); err != nil {
		details = append(details, apperrors.FieldError{Field: "channel", Message: err.Error()})
	}
	if t.IsDefault && t.TenantID != "" {
		details = append(details, apperrors.FieldError{Field: "isDefault", Message: "only the tenant-less template may be default"})
	}
	if !t.IsDefault && t.TenantID == "" {
		details = append(details, apperrors.FieldError{Field: "tenantId", Message: "required for non-default templates"})
	}

	if len(details) > 0 {
		return apperrors.NewValidation(details...)
	}
	return nil
}
