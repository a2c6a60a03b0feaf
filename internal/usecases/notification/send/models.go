// Package send implements the notification dispatch operation: resolve the
// template, render it, deliver through the channel's provider and record the
// outcome.
package send

// Recipient is the raw recipient block of the dispatch input. Which contact
// field is required depends on the channel.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Input is the raw dispatch request. Language defaults to the platform
// default when empty; an empty tenant means the system tenant.
type Input struct {
	Context   string            `json:"context"`
	Channel   string            `json:"channel"`
	Language  string            `json:"language,omitempty"`
	TenantID  string            `json:"tenantId,omitempty"`
	To        Recipient         `json:"to"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Output reports the recorded dispatch outcome.
type Output struct {
	NotificationID    string `json:"notificationId"`
	Status            string `json:"status"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
	SentAt            string `json:"sentAt,omitempty"`
}
