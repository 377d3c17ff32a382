package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic14/mosaic/internal/auth"
)

// --- Mock repositories ---

type mockUserRepo struct {
	createFn        func(ctx context.Context, u *auth.User) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*auth.User, error)
	registerFn      func(ctx context.Context, id uuid.UUID, username, hash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *auth.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) Register(ctx context.Context, id uuid.UUID, username, hash string) error {
	if m.registerFn != nil {
		return m.registerFn(ctx, id, username, hash)
	}
	return nil
}

type mockRefreshRepo struct {
	created         []string
	consumeFn       func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) (int64, error)
}

func (m *mockRefreshRepo) Create(_ context.Context, _ uuid.UUID, token string, _ time.Time) error {
	m.created = append(m.created, token)
	return nil
}

func (m *mockRefreshRepo) Consume(ctx context.Context, token string) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, token)
	}
	for i, tok := range m.created {
		if tok == token {
			m.created = append(m.created[:i], m.created[i+1:]...)
			return nil
		}
	}
	return auth.ErrRefreshTokenNotFound
}

func (m *mockRefreshRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

// --- Helpers ---

func registeredUser(t *testing.T, username, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password, testBcryptCost)
	require.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Username:     &username,
		PasswordHash: &hash,
		IsAnonymous:  false,
		CreatedAt:    time.Now().UTC(),
	}
}

func newService(users *mockUserRepo, refresh *mockRefreshRepo) *auth.Service {
	tokens := auth.NewTokenService(testSecret, 15*time.Minute, 24*time.Hour)
	return auth.NewService(users, refresh, tokens, testBcryptCost)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	u := registeredUser(t, "alice", "password1")

	users := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*auth.User, error) {
			if username == "alice" {
				return u, nil
			}
			return nil, auth.ErrUserNotFound
		},
	}
	refresh := &mockRefreshRepo{}
	svc := newService(users, refresh)

	got, pair, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Len(t, refresh.created, 1, "issued refresh token should be recorded")
}

func TestLogin_WrongPassword(t *testing.T) {
	u := registeredUser(t, "alice", "password1")

	users := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*auth.User, error) {
			return u, nil
		},
	}
	svc := newService(users, &mockRefreshRepo{})

	_, _, err := svc.Login(context.Background(), "alice", "wrongpass1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newService(&mockUserRepo{}, &mockRefreshRepo{})

	_, _, err := svc.Login(context.Background(), "nobody", "password1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_AnonymousUser(t *testing.T) {
	anon := &auth.User{
		ID:          uuid.New(),
		IsAnonymous: true,
		CreatedAt:   time.Now().UTC(),
	}

	users := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*auth.User, error) {
			return anon, nil
		},
	}
	svc := newService(users, &mockRefreshRepo{})

	_, _, err := svc.Login(context.Background(), "ghost", "password1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials,
		"anonymous accounts must fail login with the same generic error")
}

// --- Refresh ---

func TestRefresh_RotatesPair(t *testing.T) {
	ctx := context.Background()
	u := registeredUser(t, "alice", "password1")

	users := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*auth.User, error) { return u, nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*auth.User, error) {
			if id == u.ID {
				return u, nil
			}
			return nil, auth.ErrUserNotFound
		},
	}
	refresh := &mockRefreshRepo{}
	svc := newService(users, refresh)

	_, pair, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// The consumed token cannot be redeemed a second time.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_TamperedToken(t *testing.T) {
	svc := newService(&mockUserRepo{}, &mockRefreshRepo{})

	_, err := svc.Refresh(context.Background(), "garbage.token.value")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	u := registeredUser(t, "alice", "password1")

	users := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*auth.User, error) { return u, nil },
	}
	refresh := &mockRefreshRepo{}
	tokens := auth.NewTokenService(testSecret, 15*time.Minute, -1*time.Second)
	svc := auth.NewService(users, refresh, tokens, testBcryptCost)

	_, pair, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

// --- Register ---

func TestRegister_NewUser(t *testing.T) {
	refresh := &mockRefreshRepo{}
	svc := newService(&mockUserRepo{}, refresh)

	u, pair, err := svc.Register(context.Background(), "newuser", "password1", nil)
	require.NoError(t, err)

	require.NotNil(t, u.Username)
	assert.Equal(t, "newuser", *u.Username)
	assert.False(t, u.IsAnonymous)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, refresh.created, 1)
}

func TestRegister_UsernameTaken(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(_ context.Context, _ *auth.User) error {
			return auth.ErrUsernameTaken
		},
	}
	svc := newService(users, &mockRefreshRepo{})

	_, _, err := svc.Register(context.Background(), "taken", "password1", nil)
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestRegister_ClaimsAnonymousUser(t *testing.T) {
	anon := &auth.User{
		ID:          uuid.New(),
		IsAnonymous: true,
		CreatedAt:   time.Now().UTC(),
	}

	var registeredID uuid.UUID
	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*auth.User, error) {
			if id == anon.ID {
				return anon, nil
			}
			return nil, auth.ErrUserNotFound
		},
		registerFn: func(_ context.Context, id uuid.UUID, _, _ string) error {
			registeredID = id
			return nil
		},
	}
	svc := newService(users, &mockRefreshRepo{})

	anonID := anon.ID.String()
	u, _, err := svc.Register(context.Background(), "claimed", "password1", &anonID)
	require.NoError(t, err)

	assert.Equal(t, anon.ID, registeredID)
	assert.Equal(t, anon.ID, u.ID, "claimed user keeps its id")
	assert.False(t, u.IsAnonymous)
	require.NotNil(t, u.Username)
	assert.Equal(t, "claimed", *u.Username)
}

func TestRegister_ClaimRegisteredUserRejected(t *testing.T) {
	existing := registeredUser(t, "already", "password1")

	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*auth.User, error) {
			return existing, nil
		},
	}
	svc := newService(users, &mockRefreshRepo{})

	id := existing.ID.String()
	_, _, err := svc.Register(context.Background(), "other", "password1", &id)
	assert.ErrorIs(t, err, auth.ErrUserNotFound,
		"the anonymous-to-registered transition must be one-way")
}

// --- Expired token cleanup ---

func TestPurgeExpiredRefreshTokens(t *testing.T) {
	refresh := &mockRefreshRepo{
		deleteExpiredFn: func(_ context.Context) (int64, error) {
			return 3, nil
		},
	}
	svc := newService(&mockUserRepo{}, refresh)

	deleted, err := svc.PurgeExpiredRefreshTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

// --- CreateAnonymous ---

func TestCreateAnonymous(t *testing.T) {
	svc := newService(&mockUserRepo{}, &mockRefreshRepo{})

	u, err := svc.CreateAnonymous(context.Background())
	require.NoError(t, err)

	assert.True(t, u.IsAnonymous)
	assert.Nil(t, u.Username)
	assert.Nil(t, u.PasswordHash)
	assert.NotEqual(t, uuid.Nil, u.ID)
}
