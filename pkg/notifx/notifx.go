// Package notifx sends transactional email through a pluggable provider.
//
// A Service is built once at startup from config.MailConfig. When the
// configured provider lacks credentials the Service is disabled and every
// send fails with ErrServiceUnavailable without touching the network.
// Providers perform exactly one round trip per send; retry policy belongs
// to the caller.
package notifx

import (
	"context"
	"strings"

	"github.com/jamalpur-chamber/outbound/pkg/config"
	"github.com/jamalpur-chamber/outbound/pkg/errx"
	"github.com/jamalpur-chamber/outbound/pkg/logx"
)

// EmailSender delivers a single message. Implementations live in the
// notifx* subpackages.
type EmailSender interface {
	SendEmail(ctx context.Context, msg Message, opts ...Option) (DeliveryResult, error)
}

// Service is the delivery entry point used by request handlers.
type Service struct {
	provider  EmailSender
	from      Address
	clientURL string
	templates *TemplateRegistry
	logger    *logx.Logger
}

// ServiceOption customizes a Service at construction.
type ServiceOption func(*Service)

// WithLogger overrides the default logger.
func WithLogger(l *logx.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a delivery service. provider may be nil, which is
// equivalent to missing credentials.
func NewService(cfg config.MailConfig, provider EmailSender, opts ...ServiceOption) *Service {
	s := &Service{
		from:      Address{Name: cfg.FromName, Email: cfg.FromAddress},
		clientURL: strings.TrimRight(cfg.ClientURL, "/"),
		templates: NewTemplateRegistry(),
		logger:    logx.GetDefaultLogger(),
	}
	for _, o := range opts {
		o(s)
	}

	registerBuiltins(s.templates)

	if cfg.Enabled() && provider != nil {
		s.provider = provider
		s.logger.WithField("provider", cfg.Provider).Info("notifx: email service initialized")
	} else {
		s.logger.WithField("provider", cfg.Provider).Warn("notifx: provider credentials missing, email service disabled")
	}

	return s
}

// Enabled reports whether sends will reach a provider.
func (s *Service) Enabled() bool {
	return s.provider != nil
}

// Send delivers msg through the configured provider. The sender identity is
// always the service's configured one.
func (s *Service) Send(ctx context.Context, msg Message, opts ...Option) (DeliveryResult, error) {
	if s.provider == nil {
		return DeliveryResult{}, notifxErrors.New(ErrServiceUnavailable)
	}

	to := normalizeRecipients(msg.To)
	if len(to) == 0 {
		return DeliveryResult{}, notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "no recipients")
	}

	out := msg
	out.From = s.from
	out.To = to

	result, err := s.provider.SendEmail(ctx, out, opts...)
	if err != nil {
		if !errx.IsCode(err, ErrDeliveryFailed) {
			err = NewDeliveryError("unknown", 0, "", err)
		}
		s.logger.WithFields(logx.Fields{
			"to":      strings.Join(to, ", "),
			"subject": out.Subject,
		}).WithError(err).Error("notifx: email sending failed")
		return DeliveryResult{}, err
	}

	s.logger.WithFields(logx.Fields{
		"to":         strings.Join(to, ", "),
		"message_id": result.MessageID,
	}).Info("notifx: email sent")

	return result, nil
}

// RegisterTemplate parses and stores a named template for later use.
func (s *Service) RegisterTemplate(name, tmplString string) error {
	return s.templates.Register(name, tmplString)
}

// SendTemplated renders the named template into msg.HTMLBody and sends it.
// A template registered as name+".txt" fills TextBody as well.
func (s *Service) SendTemplated(ctx context.Context, name string, data interface{}, msg Message, opts ...Option) (DeliveryResult, error) {
	if s.provider == nil {
		return DeliveryResult{}, notifxErrors.New(ErrServiceUnavailable)
	}

	htmlName := name
	if s.templates.Has(name + ".html") {
		htmlName = name + ".html"
	}
	body, err := s.templates.Render(htmlName, data)
	if err != nil {
		return DeliveryResult{}, err
	}
	msg.HTMLBody = body

	if s.templates.Has(name + ".txt") {
		text, err := s.templates.Render(name+".txt", data)
		if err != nil {
			return DeliveryResult{}, err
		}
		msg.TextBody = text
	}

	return s.Send(ctx, msg, opts...)
}

// normalizeRecipients trims addresses and drops blanks and duplicates,
// keeping first-seen order.
func normalizeRecipients(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		key := strings.ToLower(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
