// Package models holds the value objects and aggregates of the core. Value
// objects validate themselves at construction; aggregates re-check their
// invariants on every mutating call.
package models

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ID identifies an aggregate. It is a UUID in string form.
type ID string

// NewID generates a fresh random ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// ParseID validates s as a UUID.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// Email is a normalized (trimmed, lowercased) email address.
type Email string

// ParseEmail normalizes and validates s.
func ParseEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if err := validation.Validate(s, validation.Required, is.EmailFormat); err != nil {
		return "", fmt.Errorf("invalid email %q: %w", s, err)
	}
	return Email(s), nil
}

func (e Email) String() string { return string(e) }

var phonePattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// Phone is a phone number in E.164 form.
type Phone string

// ParsePhone validates s as an E.164 number.
func ParsePhone(s string) (Phone, error) {
	s = strings.TrimSpace(s)
	if !phonePattern.MatchString(s) {
		return "", fmt.Errorf("invalid phone %q: must be E.164", s)
	}
	return Phone(s), nil
}

func (p Phone) String() string { return string(p) }

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Slug is a lowercase URL-safe identifier.
type Slug string

// ParseSlug validates s as a slug.
func ParseSlug(s string) (Slug, error) {
	s = strings.TrimSpace(s)
	if !slugPattern.MatchString(s) {
		return "", fmt.Errorf("invalid slug %q", s)
	}
	return Slug(s), nil
}

func (s Slug) String() string { return string(s) }

// TenantID names the customer namespace an aggregate belongs to.
// SystemTenant is the sentinel for tenant-less platform operations.
type TenantID string

const SystemTenant TenantID = "system"

// ParseTenantID accepts a UUID, the system sentinel, or an empty string
// (coerced to the system sentinel).
func ParseTenantID(s string) (TenantID, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == string(SystemTenant) {
		return SystemTenant, nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid tenant id %q: %w", s, err)
	}
	return TenantID(s), nil
}

func (t TenantID) String() string { return string(t) }

// IsSystem reports whether this is the tenant-less sentinel.
func (t TenantID) IsSystem() bool { return t == SystemTenant }

// EntityStatus is the coarse active/inactive flag carried by aggregates.
type EntityStatus string

const (
	StatusActive   EntityStatus = "active"
	StatusInactive EntityStatus = "inactive"
)

// ParseEntityStatus validates s as an entity status.
func ParseEntityStatus(s string) (EntityStatus, error) {
	switch EntityStatus(s) {
	case StatusActive, StatusInactive:
		return EntityStatus(s), nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

func (s EntityStatus) String() string { return string(s) }
