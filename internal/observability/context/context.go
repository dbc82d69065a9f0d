// Package obscontext carries correlation identifiers for logs and spans.
package obscontext

import (
	"context"
	"strings"

	"github.com/dovepeak/quotemaster/internal/workspace"
)

type requestIDKey struct{}

type userIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithUserID records the signed-in user serving the request.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, strings.TrimSpace(userID))
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(userIDKey{}).(string)
	return v
}

// WorkspaceFromContext returns the active workspace id.
func WorkspaceFromContext(ctx context.Context) string {
	return workspace.FromContext(ctx)
}
