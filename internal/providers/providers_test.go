package providers

import (
	"context"
	"errors"
	"testing"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	sendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.sendEmailFunc(ctx, params, optFns...)
}

type mockSNS struct {
	publishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.publishFunc(ctx, params, optFns...)
}

func emailNotification(t *testing.T) *models.Notification {
	t.Helper()
	n, err := models.NewNotification(models.NotificationParams{
		TemplateID: models.NewID(),
		Provider:   models.ProviderSES,
		TenantID:   models.TenantID("0f8fad5b-d9cb-469f-a165-70867728950e"),
		Channel:    models.ChannelEmail,
		Recipient:  models.Party{Name: "Ana", Email: models.Email("ana@example.com")},
		Sender:     models.Party{Name: "Notify Hub", Email: models.Email("no-reply@example.com")},
	})
	require.NoError(t, err)
	n.SetRenderedContent("Welcome Ana", "<p>Hello Ana</p>")
	return n
}

func messagingNotification(t *testing.T) *models.Notification {
	t.Helper()
	n, err := models.NewNotification(models.NotificationParams{
		TemplateID: models.NewID(),
		Provider:   models.ProviderSNS,
		TenantID:   models.TenantID("0f8fad5b-d9cb-469f-a165-70867728950e"),
		Channel:    models.ChannelMessaging,
		Recipient:  models.Party{Name: "Ana", Phone: models.Phone("+5511999990000")},
		Sender:     models.Party{Name: "Notify Hub"},
	})
	require.NoError(t, err)
	n.SetRenderedContent("", "Your code is 123456")
	return n
}

func TestEmailProviderSendsRenderedContent(t *testing.T) {
	var captured *ses.SendEmailInput
	client := &mockSES{
		sendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			captured = params
			return &ses.SendEmailOutput{MessageId: aws.String("ses-msg-1")}, nil
		},
	}
	p := NewEmailProvider(client)

	id, err := p.Send(context.Background(), emailNotification(t))

	require.NoError(t, err)
	assert.Equal(t, "ses-msg-1", id)
	require.NotNil(t, captured)
	assert.Equal(t, []string{"ana@example.com"}, captured.Destination.ToAddresses)
	assert.Equal(t, "Welcome Ana", aws.ToString(captured.Message.Subject.Data))
	assert.Equal(t, "<p>Hello Ana</p>", aws.ToString(captured.Message.Body.Html.Data))
	assert.Equal(t, "Notify Hub <no-reply@example.com>", aws.ToString(captured.Source))
}

func TestEmailProviderWrapsTransportError(t *testing.T) {
	boom := errors.New("throttled")
	client := &mockSES{
		sendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, boom
		},
	}
	p := NewEmailProvider(client)

	_, err := p.Send(context.Background(), emailNotification(t))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderDispatch, apperrors.KindOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestEmailProviderTag(t *testing.T) {
	assert.Equal(t, models.ProviderSES, NewEmailProvider(&mockSES{}).Tag())
}

func TestMessagingProviderPublishesToPhone(t *testing.T) {
	var captured *sns.PublishInput
	client := &mockSNS{
		publishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{MessageId: aws.String("sns-msg-1")}, nil
		},
	}
	p := NewMessagingProvider(client, "NOTIFYHUB")

	id, err := p.Send(context.Background(), messagingNotification(t))

	require.NoError(t, err)
	assert.Equal(t, "sns-msg-1", id)
	require.NotNil(t, captured)
	assert.Equal(t, "+5511999990000", aws.ToString(captured.PhoneNumber))
	assert.Equal(t, "Your code is 123456", aws.ToString(captured.Message))
	attr, ok := captured.MessageAttributes["AWS.SNS.SMS.SenderID"]
	require.True(t, ok)
	assert.Equal(t, "NOTIFYHUB", aws.ToString(attr.StringValue))
}

func TestMessagingProviderWrapsTransportError(t *testing.T) {
	boom := errors.New("opted out")
	client := &mockSNS{
		publishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, boom
		},
	}
	p := NewMessagingProvider(client, "")

	_, err := p.Send(context.Background(), messagingNotification(t))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderDispatch, apperrors.KindOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestRegistryForChannel(t *testing.T) {
	email := NewEmailProvider(&mockSES{})
	r := NewRegistry()
	r.Register(models.ChannelEmail, email)

	p, err := r.ForChannel(models.ChannelEmail)
	require.NoError(t, err)
	assert.Same(t, email, p)

	_, err = r.ForChannel(models.ChannelMessaging)
	assert.Error(t, err)
}
