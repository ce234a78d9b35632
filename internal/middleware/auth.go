package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/osgirl/groupbuyer/internal/auth"
	"github.com/osgirl/groupbuyer/internal/models"
	"github.com/osgirl/groupbuyer/internal/storage"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "user"

// CurrentUser extracts the authenticated user from the context.
// Returns nil for anonymous requests; the services treat nil as a
// stranger or reject it where login is required.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// Authenticate returns a middleware that resolves the Authorization
// header into a user and stores it in the request context. Requests
// without a valid Bearer token pass through anonymously; every
// endpoint that needs an identity rejects a nil actor itself, which
// keeps the error body uniform with the rest of the API.
func Authenticate(jwtManager *auth.JWTManager, store storage.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := store.GetUserByID(r.Context(), claims.UserID)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
