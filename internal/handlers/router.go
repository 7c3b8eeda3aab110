package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkovalev/calchub/internal/handlers/middleware"
	"github.com/dkovalev/calchub/internal/logger"
	"github.com/dkovalev/calchub/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	calcService calculationService,
	statsService statsService,
	l logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(authService, l))
	api.Handle("POST /auth/login", handleLogin(authService, l))
	api.Handle("POST /auth/refresh", handleTokenRefresh(authService, l))
	api.Handle("POST /auth/logout", withAuth(handleLogout(authService, l)))

	api.Handle("GET /users/me", withAuth(handleUserMe()))
	api.Handle("GET /users/me/stats", withAuth(handleUserStats(statsService, l)))

	api.Handle("POST /calculations", withAuth(handleCreateCalculation(calcService, l)))
	api.Handle("GET /calculations", withAuth(handleListCalculations(calcService, l)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return chain(root,
		middleware.LoggerMiddleware(l),
	)
}

type authService interface {
	// Register user and issue a token pair
	// Has to return apperrors.ErrUserAlreadyExists if username or email taken
	Register(ctx context.Context, username string, email string, password string) (models.User, models.TokenPair, error)

	// Login user with username and password
	// Has to return apperrors.ErrUserNotFound if credentials don't match
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Refresh tokens using refresh token; the used token is revoked
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Revoke the presented access token
	Logout(ctx context.Context, access string) error

	// Resolve access token to authenticated user
	CurrentUser(ctx context.Context, access string) (models.User, error)
}

type calculationService interface {
	Calculate(ctx context.Context, userID uuid.UUID, opType string, inputs []decimal.Decimal) (models.Calculation, error)
	ListCalculations(ctx context.Context, userID uuid.UUID) ([]models.Calculation, error)
}

type statsService interface {
	UserStats(ctx context.Context, userID string) (models.UserStats, error)
}
