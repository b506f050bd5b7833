// Package requestcontext carries request-scoped identity and correlation
// values through context without leaking transport details into services.
package requestcontext

import (
	"context"

	id "doorway/pkg/domain"
)

type contextKey int

const (
	keyRequestID contextKey = iota
	keyAccountID
)

// WithRequestID stores the correlation ID for the current request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// RequestID returns the correlation ID, or empty string if unset.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithAccountID stores the authenticated actor's account ID.
func WithAccountID(ctx context.Context, accountID id.AccountID) context.Context {
	return context.WithValue(ctx, keyAccountID, accountID)
}

// AccountID returns the authenticated actor's account ID, or the nil ID if
// the request carries no authenticated actor.
func AccountID(ctx context.Context) id.AccountID {
	if v, ok := ctx.Value(keyAccountID).(id.AccountID); ok {
		return v
	}
	return id.AccountID{}
}
