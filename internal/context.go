package internal

import (
	"context"

	"github.com/dmitrymomot/ambassador/pkg/logger"
)

type attemptIDKey struct{}

// WithAttemptID returns a copy of ctx carrying the attempt ID.
func WithAttemptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, attemptIDKey{}, id)
}

// AttemptID returns the attempt ID stored in ctx, if any.
func AttemptID(ctx context.Context) string {
	id, _ := ctx.Value(attemptIDKey{}).(string)
	return id
}

// AttemptIDExtractor adds the attempt ID to log records as "attempt_id".
func AttemptIDExtractor() logger.ContextExtractor {
	return logger.StringExtractor(attemptIDKey{}, "attempt_id")
}
