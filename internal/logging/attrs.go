package logging

import (
	"context"
	"log/slog"
	"time"

	"cardbox/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for capture session identifiers.
	FieldSessionID = "session_id"
	// FieldChannel is the standardized structured logging key for capture channel names.
	FieldChannel = "channel"
	// FieldEventType tags notable engine events for log filtering.
	FieldEventType = "event_type"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func attrsToArgs(attrs []Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// Args converts typed attrs into the variadic form slog methods accept.
func Args(attrs ...Attr) []any {
	return attrsToArgs(attrs)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

// NewComponentLogger creates a logger with a standardized component
// attribute. If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]Attr, 0, 2)
	if id, ok := services.SessionIDFromContext(ctx); ok {
		fields = append(fields, String(FieldSessionID, id))
	}
	if channel, ok := services.ChannelFromContext(ctx); ok {
		fields = append(fields, String(FieldChannel, channel))
	}
	return fields
}

// WithContext returns the logger annotated with any session and channel
// fields carried by the context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }
