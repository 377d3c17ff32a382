package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic14/mosaic/internal/api/handler"
	"github.com/mosaic14/mosaic/internal/api/middleware"
	"github.com/mosaic14/mosaic/internal/auth"
	"github.com/mosaic14/mosaic/internal/memory"
)

type mockMemoryStore struct {
	createFn func(ctx context.Context, m *memory.Memory) error
	listFn   func(ctx context.Context, userID uuid.UUID, filter memory.ListFilter) (*memory.ListResult, error)
	deleteFn func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockMemoryStore) Create(ctx context.Context, mem *memory.Memory) error {
	if m.createFn != nil {
		return m.createFn(ctx, mem)
	}
	mem.ID = uuid.New()
	mem.CreatedAt = time.Now().UTC()
	return nil
}

func (m *mockMemoryStore) List(ctx context.Context, userID uuid.UUID, filter memory.ListFilter) (*memory.ListResult, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, filter)
	}
	return &memory.ListResult{Page: filter.Page, Limit: filter.Limit}, nil
}

func (m *mockMemoryStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return memory.ErrMemoryNotFound
}

// memoryRouter mounts the handler behind optional auth, the way the API
// router does: guests reach it via the anonymous identifier header.
func memoryRouter(store memory.Store, tokens *auth.TokenService) http.Handler {
	h := handler.NewMemoryHandler(store)

	r := chi.NewRouter()
	r.Route("/api/memories", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(tokens))
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestMemoryHandler_Create_NoIdentity(t *testing.T) {
	srv := memoryRouter(&mockMemoryStore{}, newTokens())

	req := httptest.NewRequest(http.MethodPost, "/api/memories/",
		strings.NewReader(`{"content":"likes jazz"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", errorMessage(t, rec))
}

func TestMemoryHandler_Create_DefaultCategory(t *testing.T) {
	tokens := newTokens()
	userID := uuid.New()

	var created *memory.Memory
	store := &mockMemoryStore{
		createFn: func(_ context.Context, m *memory.Memory) error {
			m.ID = uuid.New()
			m.CreatedAt = time.Now().UTC()
			created = m
			return nil
		},
	}
	srv := memoryRouter(store, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/memories/",
		strings.NewReader(`{"content":"likes jazz"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, userID))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "general", created.Category)
}

func TestMemoryHandler_Create_AnonymousIdentity(t *testing.T) {
	tokens := newTokens()
	anonID := uuid.New()

	var created *memory.Memory
	store := &mockMemoryStore{
		createFn: func(_ context.Context, m *memory.Memory) error {
			m.ID = uuid.New()
			m.CreatedAt = time.Now().UTC()
			created = m
			return nil
		},
	}
	srv := memoryRouter(store, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/memories/",
		strings.NewReader(`{"content":"prefers metric units","category":"preferences"}`))
	req.Header.Set(middleware.AnonymousIDHeader, anonID.String())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, anonID, created.UserID, "guest memories attach to the anonymous identity")
	assert.Equal(t, "preferences", created.Category)
}

func TestMemoryHandler_Create_MissingContent(t *testing.T) {
	tokens := newTokens()
	srv := memoryRouter(&mockMemoryStore{}, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/memories/", strings.NewReader(`{}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemoryHandler_List_CategoryFilter(t *testing.T) {
	tokens := newTokens()

	var gotFilter memory.ListFilter
	store := &mockMemoryStore{
		listFn: func(_ context.Context, _ uuid.UUID, filter memory.ListFilter) (*memory.ListResult, error) {
			gotFilter = filter
			return &memory.ListResult{Page: filter.Page, Limit: filter.Limit}, nil
		},
	}
	srv := memoryRouter(store, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/memories/?category=preferences", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.Category)
	assert.Equal(t, "preferences", *gotFilter.Category)
}

func TestMemoryHandler_List_NoCategoryFilter(t *testing.T) {
	tokens := newTokens()

	var gotFilter memory.ListFilter
	store := &mockMemoryStore{
		listFn: func(_ context.Context, _ uuid.UUID, filter memory.ListFilter) (*memory.ListResult, error) {
			gotFilter = filter
			return &memory.ListResult{Page: filter.Page, Limit: filter.Limit}, nil
		},
	}
	srv := memoryRouter(store, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/memories/", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotFilter.Category)
}

func TestMemoryHandler_Delete_NotFound(t *testing.T) {
	tokens := newTokens()
	srv := memoryRouter(&mockMemoryStore{}, tokens)

	req := httptest.NewRequest(http.MethodDelete, "/api/memories/"+uuid.New().String(), nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Memory not found", errorMessage(t, rec))
}

func TestMemoryHandler_Delete(t *testing.T) {
	tokens := newTokens()
	memID := uuid.New()
	userID := uuid.New()

	store := &mockMemoryStore{
		deleteFn: func(_ context.Context, id, uid uuid.UUID) error {
			if id == memID && uid == userID {
				return nil
			}
			return memory.ErrMemoryNotFound
		},
	}
	srv := memoryRouter(store, tokens)

	req := httptest.NewRequest(http.MethodDelete, "/api/memories/"+memID.String(), nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, userID))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
