package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance
var log = zerolog.Nop()

// ContextKey for storing logger in context
type ctxKey struct{}

type requestIDKey struct{}

// Init initializes the global logger
func Init(env string, logLevel string) {
	InitWithWriter(env, logLevel, os.Stdout)
}

// InitWithWriter is Init with an explicit sink. Tests pass a buffer.
func InitWithWriter(env, logLevel string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	output := out
	// Pretty console output for development
	if env == "development" || env == "dev" || env == "" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	zerolog.SetGlobalLevel(parseLevel(logLevel))

	log = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLevel(logLevel string) zerolog.Level {
	switch logLevel {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext returns a logger with context
func WithContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

// NewContext creates a new context with the logger
func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// ContextWithRequestID stores the request ID so work that outlives the
// request can log under the same ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds a request ID to the logger
func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

// WithActor adds the acting admin to the logger
func WithActor(l zerolog.Logger, actor string) zerolog.Logger {
	return l.With().Str("actor", actor).Logger()
}

// --- Convenience Methods ---

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

// Fatal logs a fatal message and exits
func Fatal() *zerolog.Event {
	return log.Fatal()
}

// --- Structured Logging Helpers ---

// Transition logs a record moving from one status to another.
func Transition(ctx context.Context, record, from, to, actor string) {
	WithContext(ctx).Info().
		Str("record", record).
		Str("from", from).
		Str("to", to).
		Str("actor", actor).
		Msg("Status Changed")
}

// Rejected logs a workflow operation refused by a guard.
func Rejected(ctx context.Context, operation, record string, err error) {
	WithContext(ctx).Warn().
		Str("operation", operation).
		Str("record", record).
		Err(err).
		Msg("Operation Rejected")
}

// ServiceStart logs service startup
func ServiceStart(name, version, port string) {
	log.Info().
		Str("service", name).
		Str("version", version).
		Str("port", port).
		Msg("Service Started")
}

// ServiceStop logs service shutdown
func ServiceStop(name string) {
	log.Info().
		Str("service", name).
		Msg("Service Stopped")
}
