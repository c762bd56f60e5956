// Package observability holds the logging, metrics and health plumbing
// shared by the perfboard CLI, MCP server and outbox worker.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogLevel is the minimum level a logger emits.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogConfig configures NewLogger.
type LogConfig struct {
	Level  LogLevel
	Format LogFormat
	// Output defaults to os.Stderr so command output on stdout stays clean.
	Output    io.Writer
	AddSource bool

	ServiceName    string
	ServiceVersion string
}

// DefaultLogConfig is the text logger used by the CLI.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:          LogLevelInfo,
		Format:         LogFormatText,
		Output:         os.Stderr,
		ServiceName:    "perfboard",
		ServiceVersion: "dev",
	}
}

// ProductionLogConfig is the JSON logger used by the worker and MCP server
// when PERFBOARD_ENV=production.
func ProductionLogConfig() LogConfig {
	cfg := DefaultLogConfig()
	cfg.Format = LogFormatJSON
	cfg.Output = os.Stdout
	cfg.AddSource = true
	cfg.ServiceVersion = "unknown"
	return cfg
}

// NewLogger builds a slog logger that stamps every record with the service
// name and version plus the correlation and actor IDs found in the context.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel(), AddSource: cfg.AddSource}

	var h slog.Handler
	if cfg.Format == LogFormatJSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	var attrs []slog.Attr
	if cfg.ServiceName != "" {
		attrs = append(attrs, slog.String("service", cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", cfg.ServiceVersion))
	}
	if len(attrs) > 0 {
		h = h.WithAttrs(attrs)
	}
	return slog.New(contextHandler{next: h})
}

// LoggerFromEnv builds a logger from PERFBOARD_ENV, PERFBOARD_LOG_LEVEL,
// PERFBOARD_LOG_FORMAT and PERFBOARD_VERSION.
func LoggerFromEnv() *slog.Logger {
	return NewLogger(logConfigFromEnv(os.Getenv))
}

func logConfigFromEnv(getenv func(string) string) LogConfig {
	cfg := DefaultLogConfig()
	if getenv("PERFBOARD_ENV") == "production" {
		cfg = ProductionLogConfig()
	}
	if v := getenv("PERFBOARD_LOG_LEVEL"); v != "" {
		cfg.Level = LogLevel(strings.ToLower(v))
	}
	if v := getenv("PERFBOARD_LOG_FORMAT"); v != "" {
		cfg.Format = LogFormat(strings.ToLower(v))
	}
	if v := getenv("PERFBOARD_VERSION"); v != "" {
		cfg.ServiceVersion = v
	}
	return cfg
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler copies request-scoped IDs from the context onto each record.
type contextHandler struct {
	next slog.Handler
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	if id := ActorIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(ActorIDKey, id))
	}
	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{next: h.next.WithGroup(name)}
}
