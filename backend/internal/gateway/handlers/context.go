package handlers

import (
	"context"
	"net/http"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

type contextKey string

// UserContextKey is where the auth middleware stores the authenticated user.
const UserContextKey contextKey = "user"

// WithUser attaches the authenticated user to a request context.
func WithUser(ctx context.Context, user *shared.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// CurrentUser retrieves the authenticated user from the request context, or
// nil when the request did not pass the auth middleware.
func CurrentUser(r *http.Request) *shared.User {
	user, _ := r.Context().Value(UserContextKey).(*shared.User)
	return user
}
