package tokenmanager

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/calchub/internal/apperrors"
	"github.com/dkovalev/calchub/internal/models"
)

// In memory revocation set
type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) Add(_ context.Context, jti string, _ time.Time) error {
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[jti] = true
	return f.err
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

func newManager(t *testing.T, cfg Config) (*Manager, *fakeBlacklist) {
	t.Helper()

	if cfg.SecretKey == "" {
		cfg.SecretKey = "test-secret-key"
	}

	blacklist := &fakeBlacklist{}
	m, err := New(cfg, blacklist)
	require.NoError(t, err, "token manager should be created without errors")

	return m, blacklist
}

func Test_Manager_New(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"}, &fakeBlacklist{})
		require.NoError(t, err)

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, m.refreshTTL, "default refresh token TTL should be set")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("empty secret fail", func(t *testing.T) {
		_, err := New(Config{}, &fakeBlacklist{})
		require.Error(t, err, "manager without secret key must not be created")
	})
}

func Test_Manager_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("issues signed token with claims", func(t *testing.T) {
		m, _ := newManager(t, Config{AccessTTL: 15 * time.Minute})

		issued, err := m.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)

		require.NotEmpty(t, issued.Value)
		require.Len(t, strings.Split(issued.Value, "."), 3, "token should be three dot separated segments")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, time.Second)

		claims := &Claims{}
		_, err = jwt.ParseWithClaims(issued.Value, claims, func(t *jwt.Token) (any, error) {
			return []byte("test-secret-key"), nil
		})
		require.NoError(t, err)

		assert.Equal(t, userID.String(), claims.Subject, "sub should be the user id")
		assert.Equal(t, models.TokenTypeAccess, claims.TokenType)
		assert.NotEmpty(t, claims.ID, "token has to have jti")
		assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
		assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, 0, "expires at should match issued token")
	})

	t.Run("type default lifetimes", func(t *testing.T) {
		m, _ := newManager(t, Config{AccessTTL: time.Minute, RefreshTTL: time.Hour})

		access, err := m.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)
		refresh, err := m.Create(userID, models.TokenTypeRefresh, 0)
		require.NoError(t, err)

		assert.WithinDuration(t, time.Now().Add(time.Minute), access.ExpiresAt, time.Second)
		assert.WithinDuration(t, time.Now().Add(time.Hour), refresh.ExpiresAt, time.Second)
	})

	t.Run("explicit lifetime wins", func(t *testing.T) {
		m, _ := newManager(t, Config{AccessTTL: time.Minute})

		issued, err := m.Create(userID, models.TokenTypeAccess, 3*time.Hour)
		require.NoError(t, err)

		assert.WithinDuration(t, time.Now().Add(3*time.Hour), issued.ExpiresAt, time.Second)
	})

	t.Run("unknown type fail", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		_, err := m.Create(userID, models.TokenType("session"), 0)

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrTokenCreation)
	})

	t.Run("unique jti", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		first, err := m.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)
		second, err := m.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)

		assert.NotEqual(t, first.Value, second.Value, "tokens should differ by jti")
	})
}

func Test_Manager_Decode(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("roundtrip for every type", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		for _, tokenType := range []models.TokenType{models.TokenTypeAccess, models.TokenTypeRefresh} {
			issued, err := m.Create(userID, tokenType, 0)
			require.NoError(t, err)

			claims, err := m.Decode(t.Context(), issued.Value, tokenType)

			require.NoError(t, err, "decode of a fresh %s token should succeed", tokenType)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, tokenType, claims.TokenType)
			assert.NotEmpty(t, claims.TokenID)
			assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
		}
	})

	t.Run("type mismatch fail", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		refresh, err := m.Create(userID, models.TokenTypeRefresh, 0)
		require.NoError(t, err)

		_, err = m.Decode(t.Context(), refresh.Value, models.TokenTypeAccess)

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "type mismatch folds into generic credentials failure")
	})

	t.Run("negative lifetime always expired", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		expired, err := m.Create(userID, models.TokenTypeAccess, -5*time.Second)
		require.NoError(t, err, "creation itself should not fail")

		_, err = m.Decode(t.Context(), expired.Value, models.TokenTypeAccess)

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "expiry is indistinguishable from a generic decode failure")
	})

	t.Run("tampered signature fail", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		issued, err := m.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)

		segments := strings.Split(issued.Value, ".")
		require.Len(t, segments, 3)

		// Flip characters of the signature segment one at a time.
		// The trailing chars are skipped: base64url leaves a few bits of the
		// last symbol unused, so flipping them may decode to the same bytes
		signature := segments[2]
		for i := range signature[:len(signature)-2] {
			flipped := []byte(signature)
			if flipped[i] == 'A' {
				flipped[i] = 'B'
			} else {
				flipped[i] = 'A'
			}
			tampered := segments[0] + "." + segments[1] + "." + string(flipped)
			if tampered == issued.Value {
				continue
			}

			_, err := m.Decode(t.Context(), tampered, models.TokenTypeAccess)
			require.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "tampered signature at position %d must fail", i)
		}
	})

	t.Run("not a token fail", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		_, err := m.Decode(t.Context(), "definitely not a token", models.TokenTypeAccess)

		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unsigned token fail", func(t *testing.T) {
		m, _ := newManager(t, Config{})

		token := jwt.NewWithClaims(
			jwt.SigningMethodNone,
			Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   userID.String(),
					ID:        uuid.NewString(),
					IssuedAt:  jwt.NewNumericDate(time.Now()),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
				},
				TokenType: models.TokenTypeAccess,
			},
		)
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Decode(t.Context(), unsigned, models.TokenTypeAccess)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "valid token with none alg must fail")
	})

	t.Run("wrong key fail", func(t *testing.T) {
		m, _ := newManager(t, Config{})
		other, _ := newManager(t, Config{SecretKey: "other-secret-key"})

		issued, err := other.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)

		_, err = m.Decode(t.Context(), issued.Value, models.TokenTypeAccess)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("revoked fail distinctly", func(t *testing.T) {
		m, blacklist := newManager(t, Config{})

		issued, err := m.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)

		claims, err := m.Decode(t.Context(), issued.Value, models.TokenTypeAccess)
		require.NoError(t, err)

		err = blacklist.Add(t.Context(), claims.TokenID, claims.ExpiresAt)
		require.NoError(t, err)

		_, err = m.Decode(t.Context(), issued.Value, models.TokenTypeAccess)
		require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

		// Revocation wins over the type check too
		_, err = m.Decode(t.Context(), issued.Value, models.TokenTypeRefresh)
		require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("blacklist store error propagates unclassified", func(t *testing.T) {
		m, blacklist := newManager(t, Config{})

		issued, err := m.Create(userID, models.TokenTypeAccess, 0)
		require.NoError(t, err)

		blacklist.err = assert.AnError
		_, err = m.Decode(t.Context(), issued.Value, models.TokenTypeAccess)

		require.Error(t, err)
		require.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
		require.NotErrorIs(t, err, apperrors.ErrTokenRevoked)
		require.ErrorIs(t, err, assert.AnError)
	})
}
