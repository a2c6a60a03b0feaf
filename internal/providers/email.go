package providers

import (
	"context"
	"errors"
	"fmt"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES client the email provider needs, kept as
// an interface for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailProvider delivers email-channel notifications through Amazon SES.
type EmailProvider struct {
	client SESService
}

func NewEmailProvider(client SESService) *EmailProvider {
	return &EmailProvider{client: client}
}

func (p *EmailProvider) Tag() models.Provider { return models.ProviderSES }

// Send delivers the rendered content to the recipient's email address. The
// body goes out as both HTML and text parts.
func (p *EmailProvider) Send(ctx context.Context, n *models.Notification) (string, error) {
	if n.Recipient.Email == "" {
		return "", apperrors.NewProviderDispatch(models.ProviderSES.String(),
			errors.New("recipient email is empty"))
	}

	out, err := p.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.Recipient.Email.String()},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(n.RenderedSubject())},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(n.RenderedBody())},
				Html: &types.Content{Data: aws.String(n.RenderedBody())},
			},
		},
		Source: aws.String(formatSource(n.Sender)),
	})
	if err != nil {
		return "", apperrors.NewProviderDispatch(models.ProviderSES.String(), err)
	}

	return aws.ToString(out.MessageId), nil
}

// formatSource renders the sender as "Name <address>" when a display name is
// present.
func formatSource(sender models.Party) string {
	if sender.Name == "" {
		return sender.Email.String()
	}
	return fmt.Sprintf("%s <%s>", sender.Name, sender.Email)
}
