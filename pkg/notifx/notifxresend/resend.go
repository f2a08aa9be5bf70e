// Package notifxresend implements notifx.EmailSender using the Resend API.
package notifxresend

import (
	"context"

	"github.com/jamalpur-chamber/outbound/pkg/notifx"
	"github.com/resend/resend-go/v2"
)

const providerName = "resend"

// ResendProvider sends emails using the Resend API.
type ResendProvider struct {
	client *resend.Client
}

// NewResendProvider creates a Resend provider from an API key.
func NewResendProvider(apiKey string) *ResendProvider {
	return NewResendProviderWithClient(resend.NewClient(apiKey))
}

// NewResendProviderWithClient wraps an existing client.
func NewResendProviderWithClient(client *resend.Client) *ResendProvider {
	return &ResendProvider{client: client}
}

// SendEmail sends one email using the Resend API.
func (p *ResendProvider) SendEmail(ctx context.Context, msg notifx.Message, opts ...notifx.Option) (notifx.DeliveryResult, error) {
	so := notifx.ApplyOptions(opts)

	params := &resend.SendEmailRequest{
		From:    msg.From.String(),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTMLBody,
		Text:    msg.TextBody,
	}
	for _, tag := range so.Tags {
		params.Tags = append(params.Tags, resend.Tag{Name: "category", Value: tag})
	}

	sent, err := p.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return notifx.DeliveryResult{}, notifx.NewDeliveryError(providerName, 0, err.Error(), err)
	}

	return notifx.DeliveryResult{Success: true, MessageID: sent.Id}, nil
}
