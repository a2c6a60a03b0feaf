package models

import (
	"errors"
	"fmt"
	"time"

	apperrors "notifyhub/internal/common/errors"
)

// Keys under which the rendered template output is folded into the
// variables bag for audit.
const (
	VarRenderedSubject = "renderedSubject"
	VarRenderedBody    = "renderedBody"
)

// ErrNotPending is returned by state transitions attempted on a terminal
// notification.
var ErrNotPending = errors.New("notification is not pending")

// Party is the recipient or sender of a notification. Which contact field
// must be present depends on the channel.
type Party struct {
	Name  string
	Email Email
	Phone Phone
}

// Notification is the delivery aggregate. It is created Pending, transitions
// exactly once to Sent or Failed, and is terminal thereafter.
type Notification struct {
	ID                ID
	TemplateID        ID
	Provider          Provider
	TenantID          TenantID
	ProviderMessageID string // set only on successful dispatch
	Channel           Channel
	Recipient         Party
	Sender            Party
	Variables         map[string]string
	Status            NotificationStatus
	SentAt            *time.Time
	OpenedAt          *time.Time
	ClickedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// NotificationParams carries everything needed to construct a Notification.
type NotificationParams struct {
	TemplateID ID
	Provider   Provider
	TenantID   TenantID
	Channel    Channel
	Recipient  Party
	Sender     Party
	Variables  map[string]string
}

// NewNotification constructs a Pending notification and validates it.
func NewNotification(p NotificationParams) (*Notification, error) {
	now := time.Now().UTC()

	vars := make(map[string]string, len(p.Variables))
	for k, v := range p.Variables {
		vars[k] = v
	}

	n := &Notification{
		ID:         NewID(),
		TemplateID: p.TemplateID,
		Provider:   p.Provider,
		TenantID:   p.TenantID,
		Channel:    p.Channel,
		Recipient:  p.Recipient,
		Sender:     p.Sender,
		Variables:  vars,
		Status:     NotificationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks required fields and the recipient/channel consistency
// invariant. Safe to call at any point; must pass before persistence.
func (n *Notification) Validate() error {
	var details []apperrors.FieldError

	if n.TemplateID.IsZero() {
		details = append(details, apperrors.FieldError{Field: "templateId", Message: "required"})
	}
	if _, err := ParseProvider(n.Provider.String()); err != nil {
		details = append(details, apperrors.FieldError{Field: "provider", Message: err.Error()})
	}
	if n.TenantID == "" {
		details = append(details, apperrors.FieldError{Field: "tenantId", Message: "required"})
	}
	if n.Recipient.Name == "" {
		details = append(details, apperrors.FieldError{Field: "recipient.name", Message: "required"})
	}

	switch n.Channel {
	case ChannelEmail:
		if n.Recipient.Email == "" {
			details = append(details, apperrors.FieldError{Field: "recipient.email", Message: "required for email channel"})
		}
	case ChannelMessaging:
		if n.Recipient.Phone == "" {
			details = append(details, apperrors.FieldError{Field: "recipient.phone", Message: "required for messaging channel"})
		}
	default:
		details = append(details, apperrors.FieldError{Field: "channel", Message: "must be email or messaging"})
	}

	if len(details) > 0 {
		return apperrors.NewValidation(details...)
	}
	return nil
}

// MarkAsSent transitions Pending -> Sent, recording the provider message id
// and the send timestamp. Calling it on a non-Pending notification is an error.
func (n *Notification) MarkAsSent(providerMessageID string) error {
	if n.Status != NotificationPending {
		return fmt.Errorf("mark as sent from %s: %w", n.Status, ErrNotPending)
	}
	if providerMessageID == "" {
		return errors.New("provider message id is required to mark as sent")
	}

	now := time.Now().UTC()
	n.Status = NotificationSent
	n.ProviderMessageID = providerMessageID
	n.SentAt = &now
	n.UpdatedAt = now
	return nil
}

// MarkAsFailed transitions Pending -> Failed. Calling it on a non-Pending
// notification is an error.
func (n *Notification) MarkAsFailed() error {
	if n.Status != NotificationPending {
		return fmt.Errorf("mark as failed from %s: %w", n.Status, ErrNotPending)
	}

	n.Status = NotificationFailed
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkAsOpened stamps the open-tracking timestamp. Only Sent notifications
// can be opened; repeated calls keep the first timestamp.
func (n *Notification) MarkAsOpened() error {
	if n.Status != NotificationSent {
		return fmt.Errorf("mark as opened from %s status", n.Status)
	}
	if n.OpenedAt == nil {
		now := time.Now().UTC()
		n.OpenedAt = &now
		n.UpdatedAt = now
	}
	return nil
}

// MarkAsClicked stamps the click-tracking timestamp. Only Sent notifications
// can be clicked; repeated calls keep the first timestamp.
func (n *Notification) MarkAsClicked() error {
	if n.Status != NotificationSent {
		return fmt.Errorf("mark as clicked from %s status", n.Status)
	}
	if n.ClickedAt == nil {
		now := time.Now().UTC()
		n.ClickedAt = &now
		n.UpdatedAt = now
	}
	return nil
}

// SetRenderedContent folds the rendered subject and body into the variables
// bag so the exact delivered content survives for audit.
func (n *Notification) SetRenderedContent(subject, body string) {
	if n.Variables == nil {
		n.Variables = make(map[string]string, 2)
	}
	n.Variables[VarRenderedSubject] = subject
	n.Variables[VarRenderedBody] = body
}

// RenderedSubject returns the audited rendered subject.
func (n *Notification) RenderedSubject() string { return n.Variables[VarRenderedSubject] }

// RenderedBody returns the audited rendered body.
func (n *Notification) RenderedBody() string { return n.Variables[VarRenderedBody] }
