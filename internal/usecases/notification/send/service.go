package send

import (
	"context"
	"time"

	"notifyhub/internal/audit"
	"notifyhub/internal/common/logger"
	"notifyhub/internal/common/metrics"
	"notifyhub/internal/models"
	"notifyhub/internal/notification"
	"notifyhub/internal/providers"
	"notifyhub/internal/repository"
)

const Name = "send-notification"

// Resolver is the template lookup the dispatch pipeline depends on.
type Resolver interface {
	Resolve(ctx context.Context, c models.Context, l models.Language, ch models.Channel, tenant models.TenantID) (*models.Template, error)
}

// Auditor records dispatch outcomes out of band.
type Auditor interface {
	Index(ctx context.Context, n *models.Notification)
}

// Service drives one dispatch end to end: resolve, render, deliver, record.
// The notification is persisted exactly once, after the provider call, so the
// stored row always carries the final status.
type Service struct {
	resolver      Resolver
	renderer      *notification.Renderer
	registry      *providers.Registry
	notifications repository.NotificationRepository
	auditor       Auditor
	sender        models.Party
	logger        logger.Logger
}

var _ Auditor = (*audit.Indexer)(nil)

type ServiceParams struct {
	Resolver      Resolver
	Renderer      *notification.Renderer
	Registry      *providers.Registry
	Notifications repository.NotificationRepository
	Auditor       Auditor
	Sender        models.Party
	Logger        logger.Logger
}

func NewService(p ServiceParams) *Service {
	return &Service{
		resolver:      p.Resolver,
		renderer:      p.Renderer,
		registry:      p.Registry,
		notifications: p.Notifications,
		auditor:       p.Auditor,
		sender:        p.Sender,
		logger:        p.Logger,
	}
}

func (s *Service) Name() string { return Name }

// Execute runs the dispatch with already-validated input. A provider failure
// is recorded as a Failed notification and then re-raised unchanged; the
// recording itself is never allowed to mask the dispatch error.
func (s *Service) Execute(ctx context.Context, in Input) (*Output, error) {
	nctx, _ := models.ParseContext(in.Context)
	channel, _ := models.ParseChannel(in.Channel)
	language, _ := models.ParseLanguage(in.Language)
	tenant, _ := models.ParseTenantID(in.TenantID)

	provider, err := s.registry.ForChannel(channel)
	if err != nil {
		return nil, err
	}

	tpl, err := s.resolver.Resolve(ctx, nctx, language, channel, tenant)
	if err != nil {
		return nil, err
	}

	rendered := s.renderer.Render(tpl, in.Variables)

	n, err := models.NewNotification(models.NotificationParams{
		TemplateID: tpl.ID,
		Provider:   provider.Tag(),
		TenantID:   tenant,
		Channel:    channel,
		Recipient: models.Party{
			Name:  in.To.Name,
			Email: models.Email(in.To.Email),
			Phone: models.Phone(in.To.Phone),
		},
		Sender:    s.sender,
		Variables: in.Variables,
	})
	if err != nil {
		return nil, err
	}
	n.SetRenderedContent(rendered.Subject, rendered.Body)

	providerMessageID, sendErr := provider.Send(ctx, n)
	if sendErr != nil {
		s.recordFailure(ctx, n, sendErr)
		return nil, sendErr
	}

	if err := n.MarkAsSent(providerMessageID); err != nil {
		return nil, err
	}
	if _, err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}

	metrics.NotificationsSent.WithLabelValues(channel.String(), provider.Tag().String()).Inc()
	s.auditor.Index(ctx, n)

	s.logger.Info("notification dispatched", map[string]interface{}{
		"notificationId":    n.ID.String(),
		"channel":           channel.String(),
		"provider":          provider.Tag().String(),
		"tenantId":          tenant.String(),
		"providerMessageId": providerMessageID,
	})

	return &Output{
		NotificationID:    n.ID.String(),
		Status:            n.Status.String(),
		ProviderMessageID: providerMessageID,
		SentAt:            n.SentAt.Format(time.RFC3339),
	}, nil
}

// recordFailure marks and persists the failed notification. Persistence
// trouble here is logged only; the caller re-raises the dispatch error.
func (s *Service) recordFailure(ctx context.Context, n *models.Notification, sendErr error) {
	metrics.NotificationsFailed.WithLabelValues(n.Channel.String(), n.Provider.String()).Inc()

	s.logger.Error("notification dispatch failed", map[string]interface{}{
		"notificationId": n.ID.String(),
		"channel":        n.Channel.String(),
		"provider":       n.Provider.String(),
		"error":          sendErr.Error(),
	})

	if err := n.MarkAsFailed(); err != nil {
		s.logger.Error("failed-state transition rejected", map[string]interface{}{
			"notificationId": n.ID.String(),
			"error":          err.Error(),
		})
		return
	}
	if _, err := s.notifications.Save(ctx, n); err != nil {
		s.logger.Error("failed notification not persisted", map[string]interface{}{
			"notificationId": n.ID.String(),
			"error":          err.Error(),
		})
		return
	}
	s.auditor.Index(ctx, n)
}
