package config

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a zerolog logger writing to w according to cfg.
func NewLogger(cfg LoggingConfig, w io.Writer) zerolog.Logger {
	if strings.ToLower(cfg.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(cfg.Level))
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
