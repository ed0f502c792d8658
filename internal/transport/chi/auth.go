package chi

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// exemptPaths are routes that bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":          {},
	"/metrics":         {},
	"/api/user/signup": {},
	"/api/user/login":  {},
}

// TokenVerifier resolves a bearer token to the user it was issued to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens
// and places the owner ID in the request context. Expired and malformed
// tokens get the same response so clients simply treat it as logged out.
func BearerAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			ownerID, err := verifier.Verify(auth[len(bearerPrefix):])
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithOwnerID(r.Context(), ownerID)))
		})
	}
}

// ContextWithOwnerID stores the authenticated owner ID.
func ContextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// OwnerIDFromContext returns the authenticated owner ID, empty if absent.
func OwnerIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ownerIDKey).(string); ok {
		return v
	}
	return ""
}
