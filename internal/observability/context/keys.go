package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	batchIDKey   contextKey = "observability_batch_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithBatchID tags a context with the id of a bulk write in progress.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	if ctx == nil || batchID == "" {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, batchID)
}

func BatchIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(batchIDKey).(string)
	return value
}
