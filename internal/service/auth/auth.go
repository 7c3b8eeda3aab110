package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkovalev/calchub/internal/apperrors"
	"github.com/dkovalev/calchub/internal/models"
	"github.com/dkovalev/calchub/internal/repository"
)

// Manager that issues and validates typed tokens
type TokenManager interface {
	Create(userID uuid.UUID, tokenType models.TokenType, expiresIn time.Duration) (models.IssuedToken, error)
	Decode(ctx context.Context, token string, expected models.TokenType) (models.TokenClaims, error)
}

type Config struct {
	// Hasher to use during user registration or login process
	// Bcrypt hasher is used if not set
	Hasher PasswordHasher
}

// Auth service
type AuthService struct {
	// Manager to issue and validate tokens
	token TokenManager

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repositories to access long term data
	userRepo  repository.UserRepo
	blacklist repository.BlacklistRepo
}

func NewService(cfg Config, token TokenManager, storage repository.Storage) (*AuthService, error) {
	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &AuthService{
		token:     token,
		hasher:    hasher,
		userRepo:  storage.User(),
		blacklist: storage.Blacklist(),
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, pair, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
	})
	if err != nil {
		return models.User{}, pair, err
	}

	pair, err = s.generatePair(user.ID)
	if err != nil {
		return models.User{}, pair, err
	}

	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		// Hide which part of the credentials was wrong
		return pair, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return pair, apperrors.ErrUserNotFound
	}

	if !user.IsActive {
		return pair, apperrors.ErrInactiveUser
	}

	return s.generatePair(user.ID)
}

// Refresh exchanges a valid refresh token for a fresh pair.
// The used refresh token jti joins the revocation set, so every refresh
// token works exactly once
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	claims, err := s.token.Decode(ctx, refresh, models.TokenTypeRefresh)
	if err != nil {
		return pair, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return pair, err
	}
	if !user.IsActive {
		return pair, apperrors.ErrInactiveUser
	}

	if err := s.blacklist.Add(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return pair, fmt.Errorf("error while revoking used refresh token. Err: %w", err)
	}

	return s.generatePair(user.ID)
}

// Logout revokes the presented access token
func (s *AuthService) Logout(ctx context.Context, access string) error {
	claims, err := s.token.Decode(ctx, access, models.TokenTypeAccess)
	if err != nil {
		return err
	}

	if err := s.blacklist.Add(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("error while revoking token. Err: %w", err)
	}

	return nil
}

// CurrentUser resolves an access token to an authenticated user.
// Every failure below is classified; anything unclassified that escapes the
// pipeline (db down, bugs) is wrapped here, and only here, into
// apperrors.ErrAuthUnexpected with the cause embedded
func (s *AuthService) CurrentUser(ctx context.Context, access string) (models.User, error) {
	user, err := s.currentUser(ctx, access)
	if err != nil && !isClassified(err) {
		return models.User{}, fmt.Errorf("%w: %s", apperrors.ErrAuthUnexpected, err)
	}

	return user, err
}

func (s *AuthService) currentUser(ctx context.Context, access string) (models.User, error) {
	claims, err := s.token.Decode(ctx, access, models.TokenTypeAccess)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return models.User{}, err
	}

	if !user.IsActive {
		return models.User{}, apperrors.ErrInactiveUser
	}

	return user, nil
}

func (s *AuthService) generatePair(userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := s.token.Create(userID, models.TokenTypeAccess, 0)
	if err != nil {
		return pair, err
	}

	refresh, err := s.token.Create(userID, models.TokenTypeRefresh, 0)
	if err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func isClassified(err error) bool {
	classified := []error{
		apperrors.ErrInvalidCredentials,
		apperrors.ErrTokenRevoked,
		apperrors.ErrUserNotFound,
		apperrors.ErrInactiveUser,
	}

	for _, target := range classified {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
