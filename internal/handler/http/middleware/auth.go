package middleware

import (
	"net/http"

	"github.com/gigline/gigline-backend-go/internal/domain/auth"
	"github.com/gigline/gigline-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// AuthRequired rejects requests without a valid access token. Refresh tokens
// are not accepted here; they only pass through the /auth/refresh endpoint.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil || !isAccessToken(r, token) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isAccessToken(r *http.Request, token jwt.Token) bool {
	claims, err := token.AsMap(r.Context())
	if err != nil {
		return false
	}
	tokenType, ok := claims["type"].(string)
	return ok && tokenType == "access"
}
