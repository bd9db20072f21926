package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	base        zerolog.Logger
	initialized bool
)

// Init configures the global logger writing to stderr.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: true, human-readable console output)
func Init() {
	InitWithWriter(os.Stderr)
}

// InitWithWriter configures the global logger to write to w.
// Stdout is reserved for the operator status lines printed by the CLI,
// so diagnostics should never be pointed at it.
func InitWithWriter(w io.Writer) {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := !strings.EqualFold(getenv("LOG_PRETTY", "true"), "false")

	zerolog.TimeFieldFormat = time.RFC3339
	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: true}
	}
	base = zerolog.New(out).With().Timestamp().Logger().Level(level)
	initialized = true
}

// L returns the global logger. Call Init() once on startup.
func L() *zerolog.Logger {
	if !initialized {
		Init()
	}
	return &base
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
