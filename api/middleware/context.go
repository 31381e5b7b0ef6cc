package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxUserID contextKey = "user_id"

// UserIDFromContext returns the authenticated shopper, or uuid.Nil when the
// request never passed through Auth.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}
