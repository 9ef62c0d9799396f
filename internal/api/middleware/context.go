package middleware

import (
	"context"
	"net/http"

	"github.com/dallenport/jobpilot/internal/session"
)

type contextKey string

const (
	sessionKey     contextKey = "session"
	tokenPrefixKey contextKey = "token_prefix"
)

// SetSession stores the session in the context. Exposed for handler tests.
func SetSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetSession returns the authenticated session from the request context.
func GetSession(r *http.Request) (*session.Session, bool) {
	s, ok := r.Context().Value(sessionKey).(*session.Session)
	return s, ok
}

func setTokenPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, tokenPrefixKey, prefix)
}

func getTokenPrefix(r *http.Request) (string, bool) {
	prefix, ok := r.Context().Value(tokenPrefixKey).(string)
	return prefix, ok
}

// ExportedTokenPrefixKey returns the context key for token_prefix (for testing).
func ExportedTokenPrefixKey() contextKey {
	return tokenPrefixKey
}
