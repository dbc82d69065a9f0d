// Package workspace carries the active workspace identifier through a request.
// A workspace is an isolated single-writer data store; nothing is shared between two of them.
package workspace

import (
	"context"
	"regexp"
	"strings"
)

// Default is used when a request carries no workspace identifier.
const Default = "default"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

// ContextKey is the request context key for the active workspace ID.
type ContextKey struct{}

// WithID stores the workspace ID in the context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKey{}, Normalize(id))
}

// FromContext returns the workspace ID from context, falling back to Default.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return Default
	}
	value, ok := ctx.Value(ContextKey{}).(string)
	if !ok || value == "" {
		return Default
	}
	return value
}

// Normalize trims the identifier and replaces anything unusable with Default.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	if !Valid(id) {
		return Default
	}
	return id
}

// Valid reports whether id can be used as a workspace key segment.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}
