package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/calchub/internal/apperrors"
	"github.com/dkovalev/calchub/internal/repository"
	"github.com/dkovalev/calchub/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	defer pg.Terminate()

	withRepo := func(t *testing.T, testFunc func(r *UserRepo)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			testFunc(&UserRepo{DB: tx})
		})
	}

	params := repository.CreateUserParams{
		Username:       "testuser",
		Email:          "testuser@example.com",
		HashedPassword: "hashedpassword123",
	}

	t.Run("create user ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			user, err := r.CreateUser(t.Context(), params)

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID, "ID should be generated")
			assert.Equal(t, "testuser", user.Username)
			assert.Equal(t, "testuser@example.com", user.Email)
			assert.Equal(t, "hashedpassword123", user.HashedPassword)
			assert.True(t, user.IsActive, "users are active by default")
			assert.False(t, user.IsVerified, "users are not verified by default")
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create user duplicate username fails", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			dup := params
			dup.Email = "other@example.com"
			_, err = r.CreateUser(t.Context(), dup)
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists, "if user exists must return well defined error")
		})
	})

	t.Run("create user duplicate email fails", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			dup := params
			dup.Username = "otheruser"
			_, err = r.CreateUser(t.Context(), dup)
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("get user by id ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			got, err := r.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Username, got.Username)
			assert.Equal(t, created.HashedPassword, got.HashedPassword)
			assert.Equal(t, created.CreatedAt, got.CreatedAt)
		})
	})

	t.Run("get user by id not found", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.GetUserByID(t.Context(), uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "should return well known error")
		})
	})

	t.Run("get user by username ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			got, err := r.GetUserByUsername(t.Context(), created.Username)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Username, got.Username)
		})
	})

	t.Run("get user by username not found", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.GetUserByUsername(t.Context(), "nonexistentuser")

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("set active ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			got, err := r.SetActive(t.Context(), created.ID, false)

			require.NoError(t, err)
			assert.False(t, got.IsActive)
			assert.True(t, got.UpdatedAt.After(created.UpdatedAt) || got.UpdatedAt.Equal(created.UpdatedAt))
		})
	})

	t.Run("set active not found", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.SetActive(t.Context(), uuid.New(), false)

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
