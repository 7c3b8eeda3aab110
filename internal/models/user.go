package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string
	Email          string
	HashedPassword string

	// IsActive gates authentication: valid tokens of deactivated users
	// must be rejected
	IsActive   bool
	IsVerified bool
}
