package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	channelKey   contextKey = "channel"
)

// WithSessionID annotates context with the capture session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the capture session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithChannel annotates context with the capture channel name
// (qr, ocr, manual, voice).
func WithChannel(ctx context.Context, channel string) context.Context {
	if channel == "" {
		return ctx
	}
	return context.WithValue(ctx, channelKey, channel)
}

// ChannelFromContext returns the capture channel name if present.
func ChannelFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(channelKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
