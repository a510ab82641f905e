package transport

import (
	"net/http"

	"github.com/rpggio/hrl-explorer/internal/mcp"
)

// AdminMiddleware marks requests carrying the admin bearer token. Requests
// without it pass through unmarked; RequireAdmin rejects them where needed.
func AdminMiddleware(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mcp.TokenMatches(r.Header.Get("Authorization"), adminToken) {
				r = r.WithContext(mcp.WithAdmin(r.Context()))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin enforces the admin bearer token.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mcp.IsAdmin(r.Context()) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
