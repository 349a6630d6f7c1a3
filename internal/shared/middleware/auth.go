package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bostrovsky/tastyreport02/internal/shared/auth"
)

type ContextKey string

const (
	UserIDKey ContextKey = "user_id"
	EmailKey  ContextKey = "email"
)

// extractToken prefers the session cookie set by the login handler; API
// clients without cookies send a Bearer header instead.
func extractToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// Auth rejects requests without a valid session token and stores the
// authenticated user's id and email on the request context.
func Auth(tokens *auth.JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r)
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
