package middleware

import (
	"net/http"

	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireWorker restricts an endpoint to worker accounts.
func RequireWorker(next http.Handler) http.Handler {
	return requireRole(next, worker.RoleWorker)
}

// RequireBusiness restricts an endpoint to business accounts; admins pass too.
func RequireBusiness(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromRequest(r)
		if !ok || (role != worker.RoleBusiness && role != worker.RoleAdmin) {
			response.Forbidden(w, "Business access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireRole(next http.Handler, want worker.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromRequest(r)
		if !ok || role != want {
			response.Forbidden(w, "Insufficient role for this endpoint")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func roleFromRequest(r *http.Request) (worker.Role, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	return worker.Role(roleStr), true
}
