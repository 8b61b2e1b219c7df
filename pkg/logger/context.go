package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// With stores a child of the request logger carrying args.
func With(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, contextKey{}, From(ctx).With(args...))
}

// From returns the request logger, or the process logger outside a request.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return LoggerWrapper()
}
