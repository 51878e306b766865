package goSession

import "context"

type traceIDContextKey struct{}

// WithTraceID attaches a correlation id to ctx. The Manager copies it into audit events
// and log lines for the operation, so a UI action can be followed across both.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDContextKey{}, traceID)
}

func traceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	traceID, _ := ctx.Value(traceIDContextKey{}).(string)
	return traceID
}
