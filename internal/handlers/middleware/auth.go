package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dkovalev/calchub/internal/apperrors"
	"github.com/dkovalev/calchub/internal/handlers/render"
	"github.com/dkovalev/calchub/internal/handlers/userctx"
	"github.com/dkovalev/calchub/internal/models"
)

type authService interface {
	CurrentUser(ctx context.Context, access string) (models.User, error)
}

// BearerToken extracts the bearer token from the Authorization header
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}

	return token, true
}

// AuthMiddleware resolves the bearer token to a user and puts it on the
// request context. Failure statuses follow the error taxonomy: an inactive
// user is 400 (the credential itself was fine), everything else is 401
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				render.ServiceError(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			user, err := as.CurrentUser(r.Context(), token)
			if err != nil {
				RenderAuthError(w, err)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RenderAuthError maps authentication errors to responses.
// The catch-all variant deliberately exposes the embedded cause text,
// all other branches answer with their fixed message
func RenderAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInactiveUser):
		render.ServiceError(w, "Inactive user", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrTokenRevoked):
		render.ServiceError(w, "Token has been revoked", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.ServiceError(w, "User not found", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrAuthUnexpected):
		render.ServiceError(w, err.Error(), http.StatusUnauthorized)
	default:
		render.ServiceError(w, "Could not validate credentials", http.StatusUnauthorized)
	}
}
