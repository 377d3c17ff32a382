package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenExpired is returned when a token's expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned for any other verification failure: bad
// signature, malformed token, or wrong token type.
var ErrTokenInvalid = errors.New("invalid token")

// TokenType distinguishes access tokens from refresh tokens. The type is
// embedded as a claim so a refresh token cannot be replayed as an access
// token and vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"typ"`
}

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and verifies signed access/refresh token pairs.
// The signing secret is injected once at construction; verification is pure
// and safe to call concurrently.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokenPair produces two independently signed tokens carrying the
// user id as subject: a short-lived access token and a long-lived refresh token.
func (s *TokenService) GenerateTokenPair(userID uuid.UUID) (*TokenPair, error) {
	access, err := s.sign(userID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(userID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// VerifyAccessToken verifies signature, expiry and type of an access token
// and returns the embedded user id.
func (s *TokenService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.verify(token, TokenTypeAccess)
}

// VerifyRefreshToken verifies signature, expiry and type of a refresh token
// and returns the embedded user id.
func (s *TokenService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return s.verify(token, TokenTypeRefresh)
}

func (s *TokenService) sign(userID uuid.UUID, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// IssuedAt has whole-second resolution, so without a unique jti two
			// tokens issued within the same second would be identical strings.
			// Rotation stores and deletes refresh tokens by value and needs
			// every issuance to be distinct.
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

func (s *TokenService) verify(token string, typ TokenType) (uuid.UUID, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	if !parsed.Valid || claims.TokenType != typ {
		return uuid.Nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	return userID, nil
}
