package providers

import (
	"context"
	"errors"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSService is the slice of the SNS client the messaging provider needs,
// kept as an interface for mocking.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// MessagingProvider delivers messaging-channel notifications through Amazon
// SNS direct-to-phone publish.
type MessagingProvider struct {
	client   SNSService
	senderID string
}

func NewMessagingProvider(client SNSService, senderID string) *MessagingProvider {
	return &MessagingProvider{client: client, senderID: senderID}
}

func (p *MessagingProvider) Tag() models.Provider { return models.ProviderSNS }

// Send publishes the rendered body to the recipient's phone number. Messaging
// has no subject; only the body travels.
func (p *MessagingProvider) Send(ctx context.Context, n *models.Notification) (string, error) {
	if n.Recipient.Phone == "" {
		return "", apperrors.NewProviderDispatch(models.ProviderSNS.String(),
			errors.New("recipient phone is empty"))
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(n.Recipient.Phone.String()),
		Message:     aws.String(n.RenderedBody()),
	}
	if p.senderID != "" {
		input.MessageAttributes = senderIDAttribute(p.senderID)
	}

	out, err := p.client.Publish(ctx, input)
	if err != nil {
		return "", apperrors.NewProviderDispatch(models.ProviderSNS.String(), err)
	}

	return aws.ToString(out.MessageId), nil
}

func senderIDAttribute(senderID string) map[string]snstypes.MessageAttributeValue {
	return map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SenderID": {
			DataType:    aws.String("String"),
			StringValue: aws.String(senderID),
		},
	}
}
