package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"BREVO_API_KEY", "NOTIFX_PROVIDER", "MEDIAX_STRATEGY", "MEDIAX_MAX_BYTES", "CLOUDINARY_CLOUD_NAME"} {
		t.Setenv(k, "")
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, MailProviderBrevo, cfg.Mail.Provider)
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, 15*time.Second, cfg.Mail.BrevoTimeout)
	assert.Equal(t, "Jamalpur Chamber of Commerce", cfg.Mail.FromName)

	assert.Equal(t, StrategyStaged, cfg.Media.Strategy)
	assert.Equal(t, DefaultMaxUploadBytes, cfg.Media.MaxBytes)
	assert.Equal(t, "jamalpur-chamber", cfg.Media.Folder)
	assert.False(t, cfg.Media.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BREVO_API_KEY", "xkeysib-123")
	t.Setenv("BREVO_TIMEOUT", "3s")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "k")
	t.Setenv("CLOUDINARY_API_SECRET", "s")
	t.Setenv("MEDIAX_STRATEGY", "direct")
	t.Setenv("MEDIAX_MAX_BYTES", "not-a-number")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Mail.BrevoTimeout)
	assert.True(t, cfg.Media.Enabled())
	assert.Equal(t, StrategyDirect, cfg.Media.Strategy)
	assert.Equal(t, DefaultMaxUploadBytes, cfg.Media.MaxBytes)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	err := os.WriteFile(envFile, []byte("CLIENT_URL=https://from-dotenv.example\nMEDIAX_FOLDER=from-dotenv\n"), 0o600)
	assert.NoError(t, err)

	t.Setenv("CLIENT_URL", "https://from-env.example")
	// t.Setenv restores the original value; unset so .env can supply it.
	t.Setenv("MEDIAX_FOLDER", "")
	os.Unsetenv("MEDIAX_FOLDER")

	cfg := Load(envFile)

	assert.Equal(t, "https://from-env.example", cfg.Mail.ClientURL)
	assert.Equal(t, "from-dotenv", cfg.Media.Folder)
}

func TestMailConfig_Enabled(t *testing.T) {
	assert.True(t, MailConfig{Provider: MailProviderConsole}.Enabled())
	assert.False(t, MailConfig{Provider: MailProviderResend}.Enabled())
	assert.True(t, MailConfig{Provider: MailProviderResend, ResendAPIKey: "re_1"}.Enabled())
	assert.False(t, MailConfig{Provider: "carrier-pigeon"}.Enabled())
}
