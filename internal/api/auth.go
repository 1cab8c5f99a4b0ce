package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/user"
)

// AuthMiddleware verifies the Bearer token and stores the authenticated
// master's id in the request context.
func AuthMiddleware(issuer *user.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing_token", "Authorization header with a Bearer token is required")
				return
			}

			id, _, err := issuer.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUserID returns the authenticated master's id, or uuid.Nil outside
// an authenticated request.
func CurrentUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
