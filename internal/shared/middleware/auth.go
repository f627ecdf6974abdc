package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"paynex/internal/domain/user"
)

// SessionResolver maps a session secret to the id of the user who owns it.
type SessionResolver interface {
	Resolve(ctx context.Context, secret string) (string, error)
}

type ContextKey string

const (
	UserIDKey  ContextKey = "user_id"
	SessionKey ContextKey = "session"
)

// SessionSecret extracts the session secret from the named cookie, falling back
// to an "Authorization: Bearer" header for API clients. Empty when neither is set.
func SessionSecret(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Auth rejects requests without a live session and stores the user id and
// session secret in the request context. Only a missing session is a 401;
// a failing session store is a 500.
func Auth(sessions SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := SessionSecret(r, cookieName)
			if secret == "" {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			userID, err := sessions.Resolve(r.Context(), secret)
			switch {
			case errors.Is(err, user.ErrSessionNotFound), err == nil && userID == "":
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			case err != nil:
				log.Printf("Session lookup failed for %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, SessionKey, secret)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the user id stored by Auth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
