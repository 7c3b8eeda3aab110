package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenType is a closed enumeration of token kinds the service issues
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Valid reports whether the type is one of the known token kinds
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// TokenClaims is the decoded and fully validated payload of a signed token
type TokenClaims struct {
	UserID    uuid.UUID
	TokenType TokenType
	TokenID   string // jti, used for revocation tracking
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair returned to the user on register, login or refresh
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
