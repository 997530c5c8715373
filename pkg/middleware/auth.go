package middleware

import (
	"context"
	"net/http"
	"strings"

	"chungtay/pkg/auth"
	"chungtay/pkg/response"
)

// Identity is the authenticated caller resolved by the Auth middleware.
type Identity struct {
	UserID string
	Role   string
}

// Admin reports whether the identity carries the administrator role.
func (i Identity) Admin() bool { return i.Role == "admin" }

// UserResolver confirms the token's subject still exists and returns the
// current role flag. It must return an error when the user has been removed.
type UserResolver func(ctx context.Context, userID string) (Identity, error)

type identityKey struct{}

// CurrentUser extracts the authenticated identity from ctx. The second return
// is false on routes not behind the Auth middleware.
func CurrentUser(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Auth returns middleware that verifies the bearer token and resolves the
// caller through resolve. Rejections distinguish a missing token, an
// invalid/expired token, and a token whose user no longer exists.
func Auth(resolve UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				response.Unauthorized(w, "Missing token")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			identity, err := resolve(r.Context(), claims.UserID)
			if err != nil {
				response.Unauthorized(w, "User no longer exists")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose resolved role is not administrator.
// Must be mounted behind Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentUser(r.Context())
		if !ok || !identity.Admin() {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
