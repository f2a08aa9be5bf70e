package logx

import (
	"io"
	"os"
	"strings"
	"time"
)

// Format selects the line encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config holds the logger configuration.
type Config struct {
	Level           Level
	Format          Format
	EnableColors    bool // console format only
	EnableCaller    bool
	EnableTimestamp bool
	// TimeFormat is a Go layout, or "unix" / "unixmilli".
	TimeFormat string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// DefaultConfig is colored console output at info level.
func DefaultConfig() *Config {
	return &Config{
		Level:           LevelInfo,
		Format:          FormatConsole,
		EnableColors:    true,
		EnableTimestamp: true,
		TimeFormat:      time.RFC3339,
		Output:          os.Stdout,
	}
}

// LoadFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_COLOR, LOG_CALLER and
// LOG_TIME_FORMAT on top of DefaultConfig.
func LoadFromEnv() *Config {
	return LoadFromLookup(os.Getenv)
}

var timeFormatAliases = map[string]string{
	"RFC3339":     time.RFC3339,
	"RFC3339NANO": time.RFC3339Nano,
	"UNIX":        "unix",
	"UNIXMILLI":   "unixmilli",
}

// LoadFromLookup is LoadFromEnv with an injectable variable source.
func LoadFromLookup(getenv func(string) string) *Config {
	cfg := DefaultConfig()

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Level = ParseLevel(v)
	}
	switch Format(strings.ToLower(getenv("LOG_FORMAT"))) {
	case FormatJSON:
		cfg.Format = FormatJSON
	case FormatConsole:
		cfg.Format = FormatConsole
	}
	if v := getenv("LOG_COLOR"); v != "" {
		cfg.EnableColors = parseBool(v)
	}
	if v := getenv("LOG_CALLER"); v != "" {
		cfg.EnableCaller = parseBool(v)
	}
	if v := getenv("LOG_TIME_FORMAT"); v != "" {
		if alias, ok := timeFormatAliases[strings.ToUpper(v)]; ok {
			cfg.TimeFormat = alias
		} else {
			cfg.TimeFormat = v
		}
	}

	return cfg
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
