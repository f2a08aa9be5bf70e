package config

import "time"

// Mail providers selectable through NOTIFX_PROVIDER.
const (
	MailProviderBrevo   = "brevo"
	MailProviderSES     = "ses"
	MailProviderResend  = "resend"
	MailProviderConsole = "console"
)

// MailConfig configures email delivery.
type MailConfig struct {
	Provider string

	// BrevoAPIKey enables the Brevo provider; empty disables delivery.
	BrevoAPIKey  string
	BrevoBaseURL string
	BrevoTimeout time.Duration

	ResendAPIKey string
	AWSRegion    string

	FromAddress string
	FromName    string

	// ClientURL is the frontend origin used to build password-reset links.
	ClientURL string
}

// Enabled reports whether the selected provider has the credentials it needs.
func (c MailConfig) Enabled() bool {
	switch c.Provider {
	case MailProviderBrevo:
		return c.BrevoAPIKey != ""
	case MailProviderResend:
		return c.ResendAPIKey != ""
	case MailProviderSES:
		return c.AWSRegion != ""
	case MailProviderConsole:
		return true
	default:
		return false
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Provider:     getEnv("NOTIFX_PROVIDER", MailProviderBrevo),
		BrevoAPIKey:  getEnv("BREVO_API_KEY", ""),
		BrevoBaseURL: getEnv("BREVO_BASE_URL", "https://api.brevo.com"),
		BrevoTimeout: getEnvDuration("BREVO_TIMEOUT", 15*time.Second),
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		AWSRegion:    getEnv("NOTIFX_AWS_REGION", getEnv("AWS_REGION", "")),
		FromAddress:  getEnv("NOTIFX_FROM_ADDRESS", "noreply@thejamalpurchamberofcommerce.com"),
		FromName:     getEnv("NOTIFX_FROM_NAME", "Jamalpur Chamber of Commerce"),
		ClientURL:    getEnv("CLIENT_URL", ""),
	}
}
