package middleware

import (
	"context"
	"net/http"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"
	"orderdesk-backend/pkg/utils"
)

// AuthMiddleware accepts a Bearer token or the accessToken cookie and puts
// the admin built from its claims into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing token")
			return
		}
		if claims.UserID == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Token has no subject")
			return
		}

		// Claims are trusted for the token lifetime; there is no admin table to re-check.
		admin := &domain.Admin{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		}

		recordActor(r, admin)
		ctx := context.WithValue(r.Context(), domain.AdminContextKey, admin)
		l := logger.WithActor(*logger.WithContext(ctx), admin.ID)
		ctx = logger.NewContext(ctx, &l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
