package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shinelab/detailing-ops/internal/domain/auth"
	"github.com/shinelab/detailing-ops/internal/handler/http/response"
	"github.com/shinelab/detailing-ops/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token. It runs after
// jwtauth.Verifier, which only places the token in the context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
