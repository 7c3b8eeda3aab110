package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInactiveUser      = errors.New("inactive user")

	// Token lifecycle errors
	// ErrAuthUnexpected wraps uncategorized failures met while resolving
	// the current user and must never be returned from deeper layers
	ErrTokenCreation      = errors.New("could not create token")
	ErrInvalidCredentials = errors.New("could not validate credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrAuthUnexpected     = errors.New("authentication failed")

	ErrUnknownOperation  = errors.New("unknown operation type")
	ErrNotEnoughOperands = errors.New("at least two operands required")
	ErrDivisionByZero    = errors.New("division by zero")
)
