package logx

import (
	"strings"
)

// Level represents logging level
type Level uint8

const (
	// LevelDebug for state transitions and provider payload sizes
	LevelDebug Level = iota
	// LevelInfo for successful sends, uploads and deletions
	LevelInfo
	// LevelWarn for degraded-but-working situations (disabled services, lingering files)
	LevelWarn
	// LevelError for failures, including swallowed ones
	LevelError
	// LevelFatal for startup failures (will exit)
	LevelFatal
	// LevelOff disables all logging
	LevelOff
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL", "OFF"}

// String returns the string representation of the log level
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel parses a string into a Level, defaulting to LevelInfo
func ParseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

// Enabled checks if target would be written at the current level
func (l Level) Enabled(target Level) bool {
	return l != LevelOff && l <= target
}
