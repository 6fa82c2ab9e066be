package auth

import (
	"context"

	"github.com/dailydaisy/planner/pkg/api"
)

// userKey is a private type for the identity context key.
type userKey struct{}

// SetUser stores the authenticated user in the context.
func SetUser(ctx context.Context, user *api.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext retrieves the authenticated user.
// Returns nil if no user is set (bypass endpoint or unauthenticated).
func UserFromContext(ctx context.Context) *api.User {
	if v, ok := ctx.Value(userKey{}).(*api.User); ok {
		return v
	}
	return nil
}
