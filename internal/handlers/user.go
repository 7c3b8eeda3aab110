package handlers

import (
	"net/http"
	"time"

	"github.com/dkovalev/calchub/internal/handlers/render"
	"github.com/dkovalev/calchub/internal/handlers/userctx"
	"github.com/dkovalev/calchub/internal/logger"
)

func handleUserMe() http.Handler {
	type response struct {
		ID         string    `json:"id"`
		Username   string    `json:"username"`
		Email      string    `json:"email"`
		IsActive   bool      `json:"is_active"`
		IsVerified bool      `json:"is_verified"`
		CreatedAt  time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			ID:         user.ID.String(),
			Username:   user.Username,
			Email:      user.Email,
			IsActive:   user.IsActive,
			IsVerified: user.IsVerified,
			CreatedAt:  user.CreatedAt,
		})
	})
}

func handleUserStats(statsService statsService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		stats, err := statsService.UserStats(r.Context(), user.ID.String())
		if err != nil {
			l.Error("Failed to compute user stats", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, stats)
	})
}
