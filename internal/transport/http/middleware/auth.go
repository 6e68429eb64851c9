package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bookworm-api/internal/domain"
	jwtinfra "github.com/bookworm-api/internal/infrastructure/jwt"
)

type contextKey string

const userKey contextKey = "user"

// UserResolver loads the account bound to a verified token.
type UserResolver interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

// Auth returns middleware that validates the bearer token and injects the
// resolved user into the request context. The Authorization header may carry
// either "Bearer <token>" or the bare token — the mobile client has shipped
// both forms.
func Auth(provider *jwtinfra.Provider, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "no authentication token provided, access denied")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == "" {
				writeJSONError(w, http.StatusUnauthorized, "no authentication token provided, access denied")
				return
			}

			claims, err := provider.Verify(tokenStr)
			if err != nil {
				if errors.Is(err, jwtinfra.ErrExpired) {
					writeJSONError(w, http.StatusUnauthorized, "token has expired")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "user not found, access denied")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

// ContextWithUser injects a user the way Auth does; handler tests use it to
// exercise authenticated routes without minting tokens.
func ContextWithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
