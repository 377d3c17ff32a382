package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when a username is already in use.
var ErrUsernameTaken = errors.New("username already taken")

// ErrRefreshTokenNotFound is returned when a refresh token has no stored row,
// either because it was never issued or because it was already consumed.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// UserRepository provides operations on the users table.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Register attaches credentials to an anonymous user, upgrading it to a
	// registered account. The transition is one-way; registering an already
	// registered user returns ErrUserNotFound.
	Register(ctx context.Context, id uuid.UUID, username, passwordHash string) error
}

// RefreshTokenRepository records issued refresh tokens for rotation.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// Consume deletes the stored token, returning ErrRefreshTokenNotFound if
	// it was never issued or was already redeemed.
	Consume(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
