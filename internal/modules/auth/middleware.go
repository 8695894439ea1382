package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

// Middleware parses an optional bearer token and attaches the identity to the
// request context. Requests without a valid token proceed anonymously;
// individual routes decide what they require.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				if id, err := tokens.Verify(strings.TrimPrefix(header, "Bearer ")); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), contextKey{}, id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext returns the request identity, or nil for anonymous requests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(contextKey{}).(*Identity)
	return id
}

// RequireVerified rejects requests without an authenticated, email-verified
// identity.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if id == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !id.EmailVerified {
			http.Error(w, "email verification required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from non-administrator identities.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if id == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !id.Admin {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
