package middleware

import (
	"net/http"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/utils"
)

// AdminMiddleware ensures the authenticated user has the 'admin' role.
// MUST be used AFTER AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, ok := domain.AdminFromContext(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No user found in context")
			return
		}

		if admin.Role != domain.RoleAdmin {
			utils.WriteError(w, http.StatusForbidden, "Forbidden: Admins only")
			return
		}

		next.ServeHTTP(w, r)
	})
}
