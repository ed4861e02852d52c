package handler

import (
	"crypto/subtle"
	"net/http"
)

// requireAdmin gates the admin routes behind a shared-token header check.
//
// This is an acknowledged stub, not an authentication system: a single
// static token compared in constant time, no users, no sessions, no
// expiry. When no token is configured the routes are open, which keeps
// local development and tests friction-free.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.adminToken) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		provided := []byte(r.Header.Get("X-Admin-Token"))
		if subtle.ConstantTimeCompare(provided, h.adminToken) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
