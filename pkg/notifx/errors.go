package notifx

import "github.com/jamalpur-chamber/outbound/pkg/errx"

var notifxErrors = errx.NewRegistry("NOTIFX")

var (
	ErrServiceUnavailable = notifxErrors.Register("SERVICE_UNAVAILABLE", errx.TypeUnavailable, 503, "Email service is not configured")
	ErrDeliveryFailed     = notifxErrors.Register("DELIVERY_FAILED", errx.TypeExternal, 502, "Email provider rejected the message")
	ErrInvalidMessage     = notifxErrors.Register("INVALID_MESSAGE", errx.TypeValidation, 400, "Invalid email message")
	ErrTemplateNotFound   = notifxErrors.Register("TEMPLATE_NOT_FOUND", errx.TypeValidation, 400, "Email template not found")
	ErrTemplateParse      = notifxErrors.Register("TEMPLATE_PARSE", errx.TypeValidation, 400, "Failed to parse email template")
	ErrTemplateRender     = notifxErrors.Register("TEMPLATE_RENDER", errx.TypeInternal, 500, "Failed to render email template")
)

// NewDeliveryError builds the DeliveryFailed error every provider returns.
// status is 0 for transport-level failures; body is the raw provider response.
func NewDeliveryError(provider string, status int, body string, cause error) *errx.Error {
	return notifxErrors.NewWithCause(ErrDeliveryFailed, cause).
		WithDetail("provider", provider).
		WithDetail("status", status).
		WithDetail("body", body)
}
