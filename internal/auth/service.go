package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCredentials is returned for any login failure: unknown username,
// wrong password, or an account with no credentials. The cases are deliberately
// indistinguishable to prevent username enumeration.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidRefreshToken is returned when a refresh token fails verification
// or has already been consumed.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Service provides authentication operations: login, registration,
// anonymous sessions, and refresh token rotation.
type Service struct {
	users         UserRepository
	refreshTokens RefreshTokenRepository
	tokens        *TokenService
	bcryptCost    int
}

// NewService creates a new auth Service.
func NewService(users UserRepository, refreshTokens RefreshTokenRepository, tokens *TokenService, bcryptCost int) *Service {
	return &Service{
		users:         users,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		bcryptCost:    bcryptCost,
	}
}

// Login verifies the credentials and issues a fresh token pair. An unknown
// username, an anonymous account, a missing hash and a wrong password all
// collapse into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*User, *TokenPair, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if u.IsAnonymous || u.PasswordHash == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, *u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	return u, pair, nil
}

// Register creates a registered account. When anonymousID is non-nil the
// existing anonymous user is claimed instead of creating a new record; that
// transition happens at most once. Username uniqueness is enforced by the
// store, so concurrent registrations for the same name leave exactly one winner.
func (s *Service) Register(ctx context.Context, username, password string, anonymousID *string) (*User, *TokenPair, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	var u *User

	if anonymousID != nil {
		u, err = s.claimAnonymous(ctx, *anonymousID, username, hash)
	} else {
		u = &User{Username: &username, PasswordHash: &hash, IsAnonymous: false}
		err = s.users.Create(ctx, u)
	}
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	return u, pair, nil
}

// CreateAnonymous creates a guest user record. Its id is the opaque
// identifier the client later supplies via the anonymous-identifier channel.
func (s *Service) CreateAnonymous(ctx context.Context) (*User, error) {
	u := &User{IsAnonymous: true}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Refresh redeems a refresh token for an entirely new pair. The presented
// token is consumed, so redeeming it twice fails on the second attempt.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.refreshTokens.Consume(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("consuming refresh token: %w", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	return s.issueTokenPair(ctx, u)
}

// PurgeExpiredRefreshTokens deletes stored refresh tokens whose expiry has
// passed and returns how many were removed. Expired tokens already fail
// verification; this reclaims the rows they leave behind.
func (s *Service) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return s.refreshTokens.DeleteExpired(ctx)
}

func (s *Service) claimAnonymous(ctx context.Context, anonymousID, username, hash string) (*User, error) {
	u, err := s.getAnonymous(ctx, anonymousID)
	if err != nil {
		return nil, err
	}

	if err := s.users.Register(ctx, u.ID, username, hash); err != nil {
		return nil, err
	}

	u.Username = &username
	u.PasswordHash = &hash
	u.IsAnonymous = false

	return u, nil
}

func (s *Service) getAnonymous(ctx context.Context, anonymousID string) (*User, error) {
	id, err := ParseAnonymousID(anonymousID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !u.IsAnonymous {
		return nil, ErrUserNotFound
	}

	return u, nil
}

func (s *Service) issueTokenPair(ctx context.Context, u *User) (*TokenPair, error) {
	pair, err := s.tokens.GenerateTokenPair(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token pair: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.tokens.RefreshTTL())
	if err := s.refreshTokens.Create(ctx, u.ID, pair.RefreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("recording refresh token: %w", err)
	}

	return pair, nil
}
