// Package notifxbrevo implements notifx.EmailSender on top of the Brevo
// (formerly Sendinblue) transactional email API.
package notifxbrevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jamalpur-chamber/outbound/pkg/notifx"
)

const (
	providerName   = "brevo"
	sendPath       = "/v3/smtp/email"
	maxBodyInError = 64 << 10
)

// Provider sends mail through Brevo. It is safe for concurrent use.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option customizes a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client (tests point it at httptest).
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithBaseURL overrides https://api.brevo.com.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
}

// NewProvider creates a Brevo provider. timeout bounds the whole round trip;
// hitting it surfaces as a transport failure.
func NewProvider(apiKey string, timeout time.Duration, opts ...Option) *Provider {
	p := &Provider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.brevo.com",
		apiKey:     apiKey,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

type contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      contact   `json:"sender"`
	To          []contact `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

// SendEmail performs one POST /v3/smtp/email. Any non-2xx status or
// transport failure yields notifx.ErrDeliveryFailed with the status code and
// raw response body attached.
func (p *Provider) SendEmail(ctx context.Context, msg notifx.Message, opts ...notifx.Option) (notifx.DeliveryResult, error) {
	so := notifx.ApplyOptions(opts)

	payload := sendRequest{
		Sender:      contact{Name: msg.From.Name, Email: msg.From.Email},
		To:          make([]contact, 0, len(msg.To)),
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
		TextContent: msg.TextBody,
		Tags:        so.Tags,
	}
	for _, to := range msg.To {
		payload.To = append(payload.To, contact{Email: to})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return notifx.DeliveryResult{}, notifx.NewDeliveryError(providerName, 0, "", fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return notifx.DeliveryResult{}, notifx.NewDeliveryError(providerName, 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return notifx.DeliveryResult{}, notifx.NewDeliveryError(providerName, 0, err.Error(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyInError))
	if err != nil {
		return notifx.DeliveryResult{}, notifx.NewDeliveryError(providerName, resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return notifx.DeliveryResult{}, notifx.NewDeliveryError(providerName, resp.StatusCode, string(raw),
			fmt.Errorf("brevo api error: %d - %s", resp.StatusCode, raw))
	}

	// The message was accepted; an unreadable body only costs us the id.
	var out sendResponse
	_ = json.Unmarshal(raw, &out)

	return notifx.DeliveryResult{Success: true, MessageID: out.MessageID}, nil
}
