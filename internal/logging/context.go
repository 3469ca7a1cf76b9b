package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent tags every log line written through the returned context
// with component.
func WithComponent(ctx context.Context, component string) context.Context {
	return WithContext(ctx, FromContext(ctx).With().Str("component", component).Logger())
}

// WithWebview tags log lines with the entity id of a webview. Async IPC
// handlers receive such a context.
func WithWebview(ctx context.Context, webview uint64) context.Context {
	return WithContext(ctx, FromContext(ctx).With().Uint64("webview", webview).Logger())
}
