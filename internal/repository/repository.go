package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkovalev/calchub/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If username or email taken already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Set user active flag
	// If user not found must return apperrors.ErrUserNotFound
	SetActive(ctx context.Context, userID uuid.UUID, active bool) (models.User, error)
}

type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
}

// Calculation repository interface
type CalculationRepo interface {
	CreateCalculation(ctx context.Context, calc models.Calculation) (models.Calculation, error)

	// List all user calculations in creation (insertion) order.
	// Order is part of the contract: statistics tie-breaking depends on it
	ListUserCalculations(ctx context.Context, userID uuid.UUID) ([]models.Calculation, error)
}

// Revocation set of token IDs (jti)
// Append only: tokens are never removed from the set before they expire
type BlacklistRepo interface {
	// Add jti to the set. Adding the same jti twice is not an error
	Add(ctx context.Context, jti string, expiresAt time.Time) error

	// Report whether jti is in the set
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Storage aggregates all repositories over a single db handle
type Storage interface {
	User() UserRepo
	Calculation() CalculationRepo
	Blacklist() BlacklistRepo

	// Run fn in transaction with transaction bounded storage
	InTx(ctx context.Context, fn func(s Storage) error) error
}
