package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. Username and PasswordHash are
// nil for anonymous users; a registered user always has both.
type User struct {
	ID           uuid.UUID
	Username     *string
	PasswordHash *string
	IsAnonymous  bool
	CreatedAt    time.Time
}

// RefreshToken represents a row in the refresh_tokens table. Issued refresh
// tokens are recorded so that redeeming one consumes it; a replayed token is
// rejected even though its signature still verifies.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ParseAnonymousID parses a caller-supplied anonymous identifier. Anonymous
// identifiers are the UUIDs of anonymous user records.
func ParseAnonymousID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Identity is stored in the request context after authentication.
// Anonymous is true when the identity was resolved from an anonymous
// identifier rather than an access token.
type Identity struct {
	UserID    uuid.UUID
	Anonymous bool
}
