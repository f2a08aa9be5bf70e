// Package config builds the process configuration from the environment once
// at startup. The resulting Config is passed explicitly to every service;
// services never read environment variables themselves.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration object.
type Config struct {
	Mail   MailConfig
	Media  MediaConfig
	Server ServerConfig
}

// ServerConfig configures the composition root.
type ServerConfig struct {
	Port        string
	FrontendURL string
	CORSOrigins string
}

// Load reads an optional .env file (missing files are ignored) and then the
// process environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	return &Config{
		Mail:   loadMailConfig(),
		Media:  loadMediaConfig(),
		Server: loadServerConfig(),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "https://thejamalpurchamberofcommerce.com"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
