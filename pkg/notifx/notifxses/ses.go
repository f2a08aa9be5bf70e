// Package notifxses implements notifx.EmailSender using AWS SES.
package notifxses

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/jamalpur-chamber/outbound/pkg/notifx"
)

const providerName = "ses"

// API is the subset of *ses.Client the provider needs.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider implements notifx.EmailSender using AWS SES.
type SESProvider struct {
	client API
}

// NewSESProvider creates a new SES email provider.
func NewSESProvider(client API) *SESProvider {
	return &SESProvider{client: client}
}

// SendEmail sends a single email via SES.
func (p *SESProvider) SendEmail(ctx context.Context, msg notifx.Message, opts ...notifx.Option) (notifx.DeliveryResult, error) {
	so := notifx.ApplyOptions(opts)

	body := &types.Body{
		Html: &types.Content{
			Data:    aws.String(msg.HTMLBody),
			Charset: aws.String("UTF-8"),
		},
	}
	if msg.TextBody != "" {
		body.Text = &types.Content{
			Data:    aws.String(msg.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(msg.From.String()),
		Destination: &types.Destination{ToAddresses: msg.To},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: body,
		},
	}

	for _, tag := range so.Tags {
		input.Tags = append(input.Tags, types.MessageTag{
			Name:  aws.String("category"),
			Value: aws.String(tag),
		})
	}

	out, err := p.client.SendEmail(ctx, input)
	if err != nil {
		status := 0
		var re *awshttp.ResponseError
		if errors.As(err, &re) {
			status = re.HTTPStatusCode()
		}
		return notifx.DeliveryResult{}, notifx.NewDeliveryError(providerName, status, err.Error(), err)
	}

	return notifx.DeliveryResult{Success: true, MessageID: aws.ToString(out.MessageId)}, nil
}
