package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePermission checks if the caller's account type has a specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			typeStr, ok := claims["user_type"].(string)
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			userType := user.UserType(typeStr)
			if !user.HasPermission(userType, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but account type is '%s'", permission, userType))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
