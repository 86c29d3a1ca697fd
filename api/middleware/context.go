package middleware

import "context"

type contextKey string

const ctxCallerID contextKey = "caller_id"

// CallerFromContext returns the authenticated-by-assertion caller identifier.
func CallerFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	if v, ok := ctx.Value(ctxCallerID).(int64); ok {
		return v, true
	}
	return 0, false
}

// WithCallerID injects the caller identifier into the context.
func WithCallerID(ctx context.Context, callerID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCallerID, callerID)
}
