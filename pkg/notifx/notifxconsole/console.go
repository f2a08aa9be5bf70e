// Package notifxconsole prints emails through logx instead of sending them.
package notifxconsole

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jamalpur-chamber/outbound/pkg/logx"
	"github.com/jamalpur-chamber/outbound/pkg/notifx"
)

// ConsoleProvider logs emails. Intended for development and testing.
type ConsoleProvider struct {
	logger *logx.Logger
	seq    atomic.Uint64
}

// NewConsoleProvider creates a new console email provider. A nil logger
// uses the default one.
func NewConsoleProvider(logger *logx.Logger) *ConsoleProvider {
	if logger == nil {
		logger = logx.GetDefaultLogger()
	}
	return &ConsoleProvider{logger: logger}
}

// SendEmail logs the email details instead of sending it.
func (p *ConsoleProvider) SendEmail(_ context.Context, msg notifx.Message, _ ...notifx.Option) (notifx.DeliveryResult, error) {
	id := fmt.Sprintf("console-%d", p.seq.Add(1))

	p.logger.WithFields(logx.Fields{
		"from":       msg.From.String(),
		"to":         strings.Join(msg.To, ", "),
		"subject":    msg.Subject,
		"message_id": id,
	}).Info("notifx/console: email sent (dev mode)")

	if msg.TextBody != "" {
		p.logger.WithField("message_id", id).Debugf("notifx/console: text body:\n%s", msg.TextBody)
	}
	p.logger.WithField("message_id", id).Debugf("notifx/console: html body:\n%s", msg.HTMLBody)

	return notifx.DeliveryResult{Success: true, MessageID: id}, nil
}
