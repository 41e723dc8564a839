package middleware

import (
	"net/http"
	"strings"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/audit"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/util"
)

// AdminMiddleware guards operator endpoints with a static token compared in
// constant time. An empty configured token disables the endpoints entirely.
type AdminMiddleware struct {
	adminToken string
}

func NewAdminMiddleware(adminToken string) *AdminMiddleware {
	return &AdminMiddleware{adminToken: adminToken}
}

func (m *AdminMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.adminToken == "" {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "Admin endpoints are disabled",
			})
			return
		}

		authHeader := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if !util.ConstantTimeEqual(token, m.adminToken) {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAdminAuthFailure})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid admin token",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
