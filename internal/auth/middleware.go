package auth

import (
	"net/http"
	"strings"

	"github.com/elderlango/ReactChat/internal/rbac"
)

// CookieName is where LoginHandler puts the token; browser clients rely on it,
// API clients may send a Bearer header instead.
const CookieName = "jwt"

// TokenFromRequest extracts the JWT from the Authorization header, the session
// cookie, or (for WebSocket upgrades, where headers are awkward) a query param.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// Middleware authenticates the request and attaches the caller identity and
// role to the context.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := TokenFromRequest(r)
			if tok == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			claims, err := s.Parse(tok)
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := WithIdentity(r.Context(), Identity{ID: claims.Sub, Name: claims.Name, Role: claims.Role})
			ctx = rbac.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
