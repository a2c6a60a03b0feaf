// Package providers contains the outbound delivery adapters. Each provider
// carries exactly one channel; the registry maps a channel to its provider.
package providers

import (
	"context"
	"fmt"

	"notifyhub/internal/models"
)

// Provider delivers one rendered notification through an external service.
// Send returns the provider-assigned message id on success. Failures come
// back wrapped as provider-dispatch errors with the transport error reachable
// through Unwrap.
type Provider interface {
	Send(ctx context.Context, n *models.Notification) (string, error)
	Tag() models.Provider
}

// Registry maps each delivery channel to its provider.
type Registry struct {
	byChannel map[models.Channel]Provider
}

func NewRegistry() *Registry {
	return &Registry{byChannel: make(map[models.Channel]Provider)}
}

// Register binds a provider to a channel, replacing any previous binding.
func (r *Registry) Register(ch models.Channel, p Provider) {
	r.byChannel[ch] = p
}

// ForChannel returns the provider bound to ch.
func (r *Registry) ForChannel(ch models.Channel) (Provider, error) {
	p, ok := r.byChannel[ch]
	if !ok {
		return nil, fmt.Errorf("no provider registered for channel %q", ch)
	}
	return p, nil
}
