package middleware

import (
	"fmt"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
)

// RequireRole allows only the listed roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := auth.IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, fmt.Sprintf("Role '%s' cannot access this resource", id.Role))
		})
	}
}

// RequireDriver requires a driver login linked to a driver record.
func RequireDriver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !id.IsDriver() || id.DriverID == nil {
			response.HandleError(w, user.ErrDriverAccessRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := auth.IdentityFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(id.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, id.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
