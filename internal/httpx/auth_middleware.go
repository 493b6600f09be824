package httpx

import (
	"context"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "nur_session"

// SessionVerifier resolves a raw session token to the caller it belongs to.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// TokenFrom extracts the session token from the cookie, falling back to a
// bearer Authorization header.
func TokenFrom(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// RequireSession rejects requests without a valid, unrevoked session.
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFrom(r)
			if token == "" {
				Unauthorized(w, r)
				return
			}

			p, err := verifier.Verify(r.Context(), token)
			if err != nil {
				Unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
		})
	}
}
