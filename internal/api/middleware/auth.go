package middleware

import (
	"net/http"
	"strings"

	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/dallenport/jobpilot/internal/session"
)

// Auth resolves bearer tokens to live sessions.
type Auth struct {
	sessions *session.Manager
}

// NewAuth creates the auth middleware.
func NewAuth(m *session.Manager) *Auth {
	return &Auth{sessions: m}
}

// Authenticate validates the Bearer token against the session table and sets
// the session and token prefix in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		if len(token) < session.TokenPrefixLen {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid session token format", nil)
			return
		}

		s, ok := a.sessions.Authenticate(token)
		if !ok {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid or expired session token", nil)
			return
		}

		ctx := SetSession(r.Context(), s)
		ctx = setTokenPrefix(ctx, token[:session.TokenPrefixLen])
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
