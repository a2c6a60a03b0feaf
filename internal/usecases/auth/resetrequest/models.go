// Package resetrequest implements the first half of the password-reset flow:
// issue an expiry-guarded single-use token and notify the account owner.
package resetrequest

// Input identifies the account requesting a reset.
type Input struct {
	Email    string `json:"email"`
	TenantID string `json:"tenantId,omitempty"`
}

// Output reports when the issued token stops being usable. The token itself
// only travels through the notification, never through the response.
type Output struct {
	ExpiresAt string `json:"expiresAt"`
}
