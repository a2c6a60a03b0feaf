package models

import (
	"fmt"
	"regexp"
)

// Context identifies the business event a notification represents,
// e.g. "welcome" or "password-reset". It is a slug.
type Context string

const (
	ContextWelcome       Context = "welcome"
	ContextPasswordReset Context = "password-reset"
)

// ParseContext validates s as a notification context.
func ParseContext(s string) (Context, error) {
	slug, err := ParseSlug(s)
	if err != nil {
		return "", fmt.Errorf("invalid context: %w", err)
	}
	return Context(slug), nil
}

func (c Context) String() string { return string(c) }

// Language is an ISO 639-1 code, optionally with a region ("en", "pt-BR").
type Language string

const DefaultLanguage Language = "en"

var languagePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// ParseLanguage validates s, falling back to DefaultLanguage when empty.
func ParseLanguage(s string) (Language, error) {
	if s == "" {
		return DefaultLanguage, nil
	}
	if !languagePattern.MatchString(s) {
		return "", fmt.Errorf("invalid language %q", s)
	}
	return Language(s), nil
}

func (l Language) String() string { return string(l) }

// Channel is the delivery medium of a notification.
type Channel string

const (
	ChannelEmail     Channel = "email"
	ChannelMessaging Channel = "messaging"
)

// ParseChannel validates s as a delivery channel.
func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelEmail, ChannelMessaging:
		return Channel(s), nil
	}
	return "", fmt.Errorf("invalid channel %q: must be email or messaging", s)
}

func (c Channel) String() string { return string(c) }

// Provider tags which outbound provider carried a notification.
type Provider string

const (
	ProviderSES Provider = "ses"
	ProviderSNS Provider = "sns"
)

// ParseProvider validates s as a provider tag.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderSES, ProviderSNS:
		return Provider(s), nil
	}
	return "", fmt.Errorf("invalid provider %q", s)
}

func (p Provider) String() string { return string(p) }

// NotificationStatus is the delivery state of a notification.
// Pending is initial; Sent and Failed are terminal.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// ParseNotificationStatus validates s as a notification status.
func ParseNotificationStatus(s string) (NotificationStatus, error) {
	switch NotificationStatus(s) {
	case NotificationPending, NotificationSent, NotificationFailed:
		return NotificationStatus(s), nil
	}
	return "", fmt.Errorf("invalid notification status %q", s)
}

func (s NotificationStatus) String() string { return string(s) }

// IsTerminal reports whether no further transitions are permitted.
func (s NotificationStatus) IsTerminal() bool {
	return s == NotificationSent || s == NotificationFailed
}
