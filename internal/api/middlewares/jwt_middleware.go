package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/finsolve-tech/finsight/internal/apperr"
	"github.com/finsolve-tech/finsight/internal/models"
	"github.com/finsolve-tech/finsight/internal/services"
)

type contextKey string

const identityKey contextKey = "identity"

// JWT validates the Authorization bearer token and attaches the verified
// identity to the request context. Expired tokens get a distinct message so
// clients know to re-login rather than retry.
func JWT(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			identity, err := tokens.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				if errors.Is(err, apperr.ErrTokenExpired) {
					http.Error(w, "token has expired", http.StatusUnauthorized)
					return
				}
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom extracts the verified identity placed by the JWT middleware.
func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*models.Identity)
	return id, ok
}
