package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/foliohq/folio/internal/platform/httpx"
)

type identityContextKey struct{}

// ContextWithIdentity stores the verified identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity placed by RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// Middleware guards routes with token verification and permission checks.
// Authentication failures answer 401, permission failures 403; the two are
// never conflated.
type Middleware struct {
	Tokens     *Tokens
	CookieName string
	Logger     *slog.Logger
}

// RequireAuth verifies the bearer credential and attaches the identity to
// the request context.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := ExtractToken(r, m.CookieName)
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		identity, err := m.Tokens.Verify(r.Context(), raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("token verification failed", slog.String("path", r.URL.Path))
			}
			httpx.Error(w, http.StatusUnauthorized, ErrInvalidToken.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// RequirePermission ensures the authenticated identity holds the
// capability. Must run after RequireAuth.
func (m Middleware) RequirePermission(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !HasPermission(identity, capability) {
				httpx.Error(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
