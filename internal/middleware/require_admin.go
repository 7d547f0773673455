package middleware

import (
	"context"
	"net/http"
	"strings"

	"health-directory/internal/ports/auth"
)

// RoleLookup evita importar el paquete profiles.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// RequireAdmin corta con 401/403 si el usuario no es admin.
// Primero mira el rol de las claims; si no alcanza, consulta roles.
func RequireAdmin(roles RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if claims.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			if roles != nil {
				role, err := roles.RoleOf(r.Context(), claims.UserID)
				if err == nil && role == auth.RoleAdmin {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}
