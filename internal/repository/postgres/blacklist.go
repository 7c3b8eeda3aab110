package postgres

import (
	"context"
	"fmt"
	"time"
)

type BlacklistRepo struct {
	DB DBTX
}

const addToBlacklist = `-- name: AddToBlacklist
INSERT INTO token_blacklist (jti, expires_at)
VALUES ($1, $2)
ON CONFLICT (jti) DO NOTHING
`

func (r *BlacklistRepo) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.DB.Exec(ctx, addToBlacklist, jti, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const isBlacklisted = `-- name: IsBlacklisted
SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE jti = $1)
`

func (r *BlacklistRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.DB.QueryRow(ctx, isBlacklisted, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return revoked, nil
}
