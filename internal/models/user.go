package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidResetToken is returned when a reset token is absent, does not
// match, or has expired.
var ErrInvalidResetToken = errors.New("reset token is invalid or expired")

// User is the account aggregate. The password-reset token is expiry-guarded
// state embedded in the aggregate: both fields are set together by
// IssueResetToken and cleared together by UpdatePassword, which makes a
// successful reset single-use.
type User struct {
	ID                  ID
	TenantID            TenantID
	Name                string
	Email               Email
	PasswordHash        string
	ResetToken          string
	ResetTokenExpiresAt *time.Time
	Status              EntityStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// NewUser constructs an active user.
func NewUser(tenantID TenantID, name string, email Email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           NewID(),
		TenantID:     tenantID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive is the uniform soft-delete predicate.
func (u *User) IsActive() bool {
	return u.DeletedAt == nil && u.Status == StatusActive
}

// IssueResetToken generates a single-use credential-reset token valid for
// ttl, overwriting any previous one, and returns it.
func (u *User) IssueResetToken(ttl time.Duration) string {
	now := time.Now().UTC()
	expiry := now.Add(ttl)

	u.ResetToken = uuid.New().String()
	u.ResetTokenExpiresAt = &expiry
	u.UpdatedAt = now
	return u.ResetToken
}

// ValidateResetToken checks that a token is present, matches exactly and has
// not expired. It does not consume the token; UpdatePassword does.
func (u *User) ValidateResetToken(token string) error {
	if u.ResetToken == "" || u.ResetTokenExpiresAt == nil {
		return ErrInvalidResetToken
	}
	if token == "" || token != u.ResetToken {
		return ErrInvalidResetToken
	}
	if !time.Now().UTC().Before(*u.ResetTokenExpiresAt) {
		return ErrInvalidResetToken
	}
	return nil
}

// UpdatePassword swaps the credential and clears the reset token state, so a
// token that authorized this update cannot be used again.
func (u *User) UpdatePassword(passwordHash string) {
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpiresAt = nil
	u.UpdatedAt = time.Now().UTC()
}
