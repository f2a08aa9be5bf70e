package notifx

import (
	"context"

	"github.com/jamalpur-chamber/outbound/pkg/asyncx"
)

// DefaultBatchWorkers bounds concurrent provider calls in SendBatch.
const DefaultBatchWorkers = 4

// SendOTP emails a one-time password.
func (s *Service) SendOTP(ctx context.Context, to, code string) (DeliveryResult, error) {
	return s.SendTemplated(ctx, TemplateOTP, struct{ Code string }{code},
		Message{To: []string{to}, Subject: subjectOTP})
}

// SendWelcome emails the account-created greeting.
func (s *Service) SendWelcome(ctx context.Context, to, name string) (DeliveryResult, error) {
	return s.SendTemplated(ctx, TemplateWelcome, struct{ Name string }{name},
		Message{To: []string{to}, Subject: subjectWelcome})
}

// SendPasswordReset emails a reset link built from the configured client URL.
func (s *Service) SendPasswordReset(ctx context.Context, to, resetToken string) (DeliveryResult, error) {
	if s.clientURL == "" {
		s.logger.Warn("notifx: CLIENT_URL is empty, password reset link will be relative")
	}
	return s.SendTemplated(ctx, TemplatePasswordReset, struct{ ResetURL string }{s.ResetURL(resetToken)},
		Message{To: []string{to}, Subject: subjectPasswordReset})
}

// ResetURL returns the password-reset link for a token.
func (s *Service) ResetURL(resetToken string) string {
	return s.clientURL + "/reset-password/" + resetToken
}

// SendBatch sends each message independently with at most workers
// concurrent provider calls. Every message gets its own outcome in input
// order; a failure never stops the rest and nothing is retried.
func (s *Service) SendBatch(ctx context.Context, msgs []Message, workers int, opts ...Option) []asyncx.Result[DeliveryResult] {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	return asyncx.PoolSettled(ctx, workers, msgs, func(ctx context.Context, m Message) (DeliveryResult, error) {
		return s.Send(ctx, m, opts...)
	})
}
