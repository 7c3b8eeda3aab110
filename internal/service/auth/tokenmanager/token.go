package tokenmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dkovalev/calchub/internal/apperrors"
	"github.com/dkovalev/calchub/internal/models"
	"github.com/dkovalev/calchub/internal/repository"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 24 * time.Hour
	defaultSigningMethod   = "HS256"
)

// Claims encoded into every issued token
// 'sub' carries the user ID, 'type' the token kind, 'jti' the revocation key
type Claims struct {
	jwt.RegisteredClaims
	TokenType models.TokenType `json:"type"`
}

// Token manager with sensible defaults
type Config struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Manager creates and validates signed typed tokens.
// Decode pipeline: signature → expiry → revocation → type; every stage is
// terminal for the request, nothing is retried
type Manager struct {
	key string
	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration

	// Revocation set keyed by jti
	blacklist repository.BlacklistRepo
}

func New(cfg Config, blacklist repository.BlacklistRepo) (*Manager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &Manager{
		key:        cfg.SecretKey,
		alg:        jwt.GetSigningMethod(cfg.Alg),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		blacklist:  blacklist,
	}, nil
}

// Create issues a signed token for the user.
// expiresIn == 0 selects the type default; negative values are honored and
// produce an already expired token (useful for tests and forced logout)
func (m *Manager) Create(userID uuid.UUID, tokenType models.TokenType, expiresIn time.Duration) (models.IssuedToken, error) {
	var issued models.IssuedToken

	if !tokenType.Valid() {
		return issued, fmt.Errorf("%w: unknown token type %q", apperrors.ErrTokenCreation, tokenType)
	}

	if expiresIn == 0 {
		switch tokenType {
		case models.TokenTypeAccess:
			expiresIn = m.accessTTL
		case models.TokenTypeRefresh:
			expiresIn = m.refreshTTL
		}
	}

	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(expiresIn)
	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			TokenType: tokenType,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return issued, fmt.Errorf("%w: %v", apperrors.ErrTokenCreation, err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Decode parses and fully validates a token of the expected type.
// Malformed, tampered and expired tokens all fail the same way with
// apperrors.ErrInvalidCredentials; a revoked token fails distinctly with
// apperrors.ErrTokenRevoked. A type mismatch is folded into the generic
// credentials failure, the mismatched type is only kept as wrap context
func (m *Manager) Decode(ctx context.Context, tokenString string, expected models.TokenType) (models.TokenClaims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidCredentials, err)
	}

	revoked, err := m.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("error while checking token revocation. Err: %w", err)
	}
	if revoked {
		return models.TokenClaims{}, apperrors.ErrTokenRevoked
	}

	if claims.TokenType != expected {
		return models.TokenClaims{}, fmt.Errorf("%w: unexpected token type %q", apperrors.ErrInvalidCredentials, claims.TokenType)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: bad subject", apperrors.ErrInvalidCredentials)
	}

	decoded := models.TokenClaims{
		UserID:    userID,
		TokenType: claims.TokenType,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}

	return decoded, nil
}
