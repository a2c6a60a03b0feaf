package send

import (
	"context"
	"errors"
	"testing"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/common/logger"
	"notifyhub/internal/models"
	"notifyhub/internal/notification"
	"notifyhub/internal/providers"
	"notifyhub/internal/repository"
	"notifyhub/internal/usecases"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	tpl   *models.Template
	err   error
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, _ models.Context, _ models.Language, _ models.Channel, _ models.TenantID) (*models.Template, error) {
	s.calls++
	return s.tpl, s.err
}

type stubProvider struct {
	tag      models.Provider
	sendFunc func(ctx context.Context, n *models.Notification) (string, error)
	sent     []*models.Notification
}

func (s *stubProvider) Tag() models.Provider { return s.tag }

func (s *stubProvider) Send(ctx context.Context, n *models.Notification) (string, error) {
	s.sent = append(s.sent, n)
	return s.sendFunc(ctx, n)
}

type stubNotificationRepo struct {
	saved   []*models.Notification
	saveErr error
}

func (s *stubNotificationRepo) FindByID(context.Context, models.ID) (*models.Notification, error) {
	return nil, apperrors.NewNotFound("notification", "")
}

func (s *stubNotificationRepo) Save(_ context.Context, n *models.Notification) (*models.Notification, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = append(s.saved, n)
	return n, nil
}

func (s *stubNotificationRepo) Delete(context.Context, models.ID) error { return nil }

func (s *stubNotificationRepo) Exists(context.Context, models.ID) (bool, error) {
	return false, nil
}

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)

type stubAuditor struct {
	indexed []*models.Notification
}

func (s *stubAuditor) Index(_ context.Context, n *models.Notification) {
	s.indexed = append(s.indexed, n)
}

type fixture struct {
	service  *Service
	resolver *stubResolver
	provider *stubProvider
	repo     *stubNotificationRepo
	auditor  *stubAuditor
}

func newFixture(t *testing.T, channel models.Channel) *fixture {
	t.Helper()

	tpl := &models.Template{
		ID:        models.NewID(),
		Context:   models.ContextWelcome,
		Language:  models.DefaultLanguage,
		Channel:   channel,
		Subject:   "Welcome {{name}}",
		Body:      "Hello {{name}}, get started at {{url}}",
		IsDefault: true,
		Status:    models.StatusActive,
	}

	tag := models.ProviderSES
	if channel == models.ChannelMessaging {
		tag = models.ProviderSNS
	}

	resolver := &stubResolver{tpl: tpl}
	provider := &stubProvider{
		tag: tag,
		sendFunc: func(context.Context, *models.Notification) (string, error) {
			return "msg-1", nil
		},
	}
	repo := &stubNotificationRepo{}
	auditor := &stubAuditor{}

	registry := providers.NewRegistry()
	registry.Register(channel, provider)

	svc := NewService(ServiceParams{
		Resolver:      resolver,
		Renderer:      notification.NewRenderer(),
		Registry:      registry,
		Notifications: repo,
		Auditor:       auditor,
		Sender:        models.Party{Name: "Notify Hub", Email: models.Email("no-reply@example.com")},
		Logger:        logger.NewNop(),
	})

	return &fixture{service: svc, resolver: resolver, provider: provider, repo: repo, auditor: auditor}
}

func emailInput() Input {
	return Input{
		Context:   "welcome",
		Channel:   "email",
		To:        Recipient{Name: "Ana", Email: "Ana@Example.com"},
		Variables: map[string]string{"name": "Ana", "url": "https://x/start"},
	}
}

func TestValidateAppliesDefaultsAndCoercion(t *testing.T) {
	f := newFixture(t, models.ChannelEmail)

	in, err := f.service.Validate(context.Background(), Input{
		Context: " welcome ",
		Channel: "email",
		To:      Recipient{Name: " Ana ", Email: " Ana@Example.com "},
	})

	require.NoError(t, err)
	assert.Equal(t, "welcome", in.Context)
	assert.Equal(t, "en", in.Language)
	assert.Equal(t, "Ana", in.To.Name)
	assert.Equal(t, "ana@example.com", in.To.Email)
}

func TestValidateReportsChannelDependentContact(t *testing.T) {
	f := newFixture(t, models.ChannelEmail)

	_, err := f.service.Validate(context.Background(), Input{
		Context: "welcome",
		Channel: "email",
		To:      Recipient{Name: "Ana"},
	})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("to.email"))

	_, err = f.service.Validate(context.Background(), Input{
		Context: "welcome",
		Channel: "messaging",
		To:      Recipient{Name: "Ana", Email: "ana@example.com"},
	})

	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("to.phone"))
}

func TestValidateRejectsUnknownChannel(t *testing.T) {
	f := newFixture(t, models.ChannelEmail)

	_, err := f.service.Validate(context.Background(), Input{
		Context: "welcome",
		Channel: "pigeon",
		To:      Recipient{Name: "Ana"},
	})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("channel"))
}

func TestDispatchSuccessRecordsSentNotification(t *testing.T) {
	f := newFixture(t, models.ChannelEmail)

	out, err := usecases.Run[Input, *Output](context.Background(), f.service, emailInput())

	require.NoError(t, err)
	assert.Equal(t, "sent", out.Status)
	assert.Equal(t, "msg-1", out.ProviderMessageID)
	assert.NotEmpty(t, out.SentAt)

	require.Len(t, f.repo.saved, 1)
	saved := f.repo.saved[0]
	assert.Equal(t, models.NotificationSent, saved.Status)
	assert.Equal(t, "msg-1", saved.ProviderMessageID)
	assert.Equal(t, models.SystemTenant, saved.TenantID)
	assert.Equal(t, "Welcome Ana", saved.RenderedSubject())
	assert.Equal(t, "Hello Ana, get started at https://x/start", saved.RenderedBody())

	require.Len(t, f.auditor.indexed, 1)
	assert.Same(t, saved, f.auditor.indexed[0])
}

func TestDispatchFailurePersistsFailedAndReRaises(t *testing.T) {
	f := newFixture(t, models.ChannelEmail)
	boom := apperrors.NewProviderDispatch("ses", errors.New("throttled"))
	f.provider.sendFunc = func(context.Context, *models.Notification) (string, error) {
		return "", boom
	}

	_, err := usecases.Run[Input, *Output](context.Background(), f.service, emailInput())

	assert.Same(t, boom, err)
	require.Len(t, f.repo.saved, 1)
	assert.Equal(t, models.NotificationFailed, f.repo.saved[0].Status)
	require.Len(t, f.auditor.indexed, 1)
}

func TestDispatchFailurePersistTroubleDoesNotMaskError(t *testing.T) {
	f := newFixture(t, models.ChannelEmail)
	boom := errors.New("network down")
	f.provider.sendFunc = func(context.Context, *models.Notification) (string, error) {
		return "", boom
	}
	f.repo.saveErr = errors.New("db down too")

	_, err := f.service.Execute(context.Background(), emailInput())

	assert.Same(t, boom, err)
	assert.Empty(t, f.auditor.indexed)
}

func TestDispatchTemplateNotFoundShortCircuits(t *testing.T) {
	f := newFixture(t, models.ChannelEmail)
	f.resolver.tpl = nil
	f.resolver.err = apperrors.NewNotFound("template", "context=welcome")

	_, err := f.service.Execute(context.Background(), emailInput())

	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.provider.sent)
	assert.Empty(t, f.repo.saved)
}

func TestDispatchMessagingChannel(t *testing.T) {
	f := newFixture(t, models.ChannelMessaging)

	out, err := f.service.Execute(context.Background(), Input{
		Context:   "welcome",
		Channel:   "messaging",
		Language:  "en",
		To:        Recipient{Name: "Ana", Phone: "+5511999990000"},
		Variables: map[string]string{"name": "Ana"},
	})

	require.NoError(t, err)
	assert.Equal(t, "sent", out.Status)
	require.Len(t, f.repo.saved, 1)
	assert.Equal(t, models.ProviderSNS, f.repo.saved[0].Provider)
}
