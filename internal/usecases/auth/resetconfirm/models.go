// Package resetconfirm implements the second half of the password-reset
// flow: verify the token and swap the credential, consuming the token.
package resetconfirm

// Input carries the token issued by the request step and the new credential.
type Input struct {
	Email       string `json:"email"`
	TenantID    string `json:"tenantId,omitempty"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Output confirms the credential swap.
type Output struct {
	UserID    string `json:"userId"`
	UpdatedAt string `json:"updatedAt"`
}
