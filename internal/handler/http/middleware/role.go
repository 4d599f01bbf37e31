package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/user"
	"github.com/cmlabs-hris/biometric-sync/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			role := user.Role(roleStr)
			if !user.HasPermission(role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireDeviceMatch lets device tokens write only to the device named in
// the URL. Other roles pass through.
func RequireDeviceMatch(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			if role, _ := claims["role"].(string); role != string(user.RoleDevice) {
				next.ServeHTTP(w, r)
				return
			}

			subject, _ := claims["user_id"].(string)
			if subject == "" || subject != chi.URLParam(r, param) {
				response.Forbidden(w, "Device token does not match the target device")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
