package transport

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnauthorized indicates a missing or unknown session.
var ErrUnauthorized = errors.New("unauthorized")

// MsgNotLoggedIn is the backend message for requests without a session.
const MsgNotLoggedIn = "Oturum açılmamış"

type userKey struct{}

// UserResolver resolves a user ID from a session token.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// UserFromContext returns the user ID from context, if present.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok
}

// WithUser stores a user ID in the context.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// AuthMiddleware enforces cookie session authentication.
func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := SessionToken(r)
			if !ok {
				WriteFailure(w, http.StatusUnauthorized, MsgNotLoggedIn)
				return
			}

			userID, err := resolver.ResolveUser(r.Context(), token)
			if err != nil || userID == "" {
				WriteFailure(w, http.StatusUnauthorized, MsgNotLoggedIn)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}
