package utils

import (
	"context"
)

type contextKey string

// ContextClientKey holds the caller identity used for rate limiting.
const ContextClientKey contextKey = "client"

func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, ContextClientKey, client)
}

func GetClientFromContext(ctx context.Context) (string, bool) {
	client, ok := ctx.Value(ContextClientKey).(string)
	return client, ok && client != ""
}
