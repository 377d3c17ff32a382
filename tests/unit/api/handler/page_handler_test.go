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
	"github.com/mosaic14/mosaic/internal/page"
)

type mockPageRepo struct {
	createFn    func(ctx context.Context, p *page.Page) error
	getBySlugFn func(ctx context.Context, slug string) (*page.Page, error)
	listFn      func(ctx context.Context) ([]page.Page, error)
	updateFn    func(ctx context.Context, slug string, fields page.UpdateFields) (*page.Page, error)
	deleteFn    func(ctx context.Context, slug string) error
}

func (m *mockPageRepo) Create(ctx context.Context, p *page.Page) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	return nil
}

func (m *mockPageRepo) GetBySlug(ctx context.Context, slug string) (*page.Page, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, page.ErrPageNotFound
}

func (m *mockPageRepo) List(ctx context.Context) ([]page.Page, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPageRepo) Update(ctx context.Context, slug string, fields page.UpdateFields) (*page.Page, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, slug, fields)
	}
	return nil, page.ErrPageNotFound
}

func (m *mockPageRepo) Delete(ctx context.Context, slug string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, slug)
	}
	return page.ErrPageNotFound
}

// pageRouter mounts the handler the way the API router does: public reads,
// mutations behind required auth.
func pageRouter(repo page.Repository, tokens *auth.TokenService) http.Handler {
	h := handler.NewPageHandler(repo)
	requireAuth := middleware.RequireAuth(tokens)

	r := chi.NewRouter()
	r.Route("/api/pages", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{slug}", h.GetBySlug)
		r.With(requireAuth).Post("/", h.Create)
		r.With(requireAuth).Patch("/{slug}", h.Update)
		r.With(requireAuth).Delete("/{slug}", h.Delete)
	})
	return r
}

func TestPageHandler_GetBySlug_Public(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockPageRepo{
		getBySlugFn: func(_ context.Context, slug string) (*page.Page, error) {
			if slug == "getting-started" {
				return &page.Page{ID: uuid.New(), Slug: slug, Title: "Getting Started", Content: "Welcome", CreatedAt: now, UpdatedAt: now}, nil
			}
			return nil, page.ErrPageNotFound
		},
	}
	srv := pageRouter(repo, newTokens())

	// No Authorization header: reads are public.
	req := httptest.NewRequest(http.MethodGet, "/api/pages/getting-started", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Page    struct {
			Slug  string `json:"slug"`
			Title string `json:"title"`
		} `json:"page"`
	}
	decodeBody(t, rec, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "getting-started", body.Page.Slug)
}

func TestPageHandler_GetBySlug_NotFound(t *testing.T) {
	srv := pageRouter(&mockPageRepo{}, newTokens())

	req := httptest.NewRequest(http.MethodGet, "/api/pages/missing", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page not found", errorMessage(t, rec))
}

func TestPageHandler_Create_RequiresAuth(t *testing.T) {
	srv := pageRouter(&mockPageRepo{}, newTokens())

	req := httptest.NewRequest(http.MethodPost, "/api/pages/",
		strings.NewReader(`{"slug":"about","title":"About"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPageHandler_Create(t *testing.T) {
	tokens := newTokens()

	var created *page.Page
	repo := &mockPageRepo{
		createFn: func(_ context.Context, p *page.Page) error {
			p.ID = uuid.New()
			p.CreatedAt = time.Now().UTC()
			p.UpdatedAt = p.CreatedAt
			created = p
			return nil
		},
	}
	srv := pageRouter(repo, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/pages/",
		strings.NewReader(`{"slug":"about-us","title":"About Us","content":"Hello"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, "about-us", created.Slug)
}

func TestPageHandler_Create_SlugTaken(t *testing.T) {
	tokens := newTokens()
	repo := &mockPageRepo{
		createFn: func(_ context.Context, _ *page.Page) error { return page.ErrSlugTaken },
	}
	srv := pageRouter(repo, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/pages/",
		strings.NewReader(`{"slug":"about","title":"About"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Page slug already taken", errorMessage(t, rec))
}

func TestPageHandler_Create_InvalidSlug(t *testing.T) {
	tokens := newTokens()
	srv := pageRouter(&mockPageRepo{}, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/pages/",
		strings.NewReader(`{"slug":"Not A Slug","title":"Bad"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageHandler_Update_PartialFields(t *testing.T) {
	tokens := newTokens()
	now := time.Now().UTC()

	var gotFields page.UpdateFields
	repo := &mockPageRepo{
		updateFn: func(_ context.Context, slug string, fields page.UpdateFields) (*page.Page, error) {
			gotFields = fields
			return &page.Page{ID: uuid.New(), Slug: slug, Title: "About", Content: "new content", CreatedAt: now, UpdatedAt: now}, nil
		},
	}
	srv := pageRouter(repo, tokens)

	req := httptest.NewRequest(http.MethodPatch, "/api/pages/about",
		strings.NewReader(`{"content":"new content"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotFields.Title, "omitted fields stay unchanged")
	require.NotNil(t, gotFields.Content)
	assert.Equal(t, "new content", *gotFields.Content)
}

func TestPageHandler_Update_NoFields(t *testing.T) {
	tokens := newTokens()
	srv := pageRouter(&mockPageRepo{}, tokens)

	req := httptest.NewRequest(http.MethodPatch, "/api/pages/about", strings.NewReader(`{}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageHandler_Delete(t *testing.T) {
	tokens := newTokens()
	repo := &mockPageRepo{
		deleteFn: func(_ context.Context, slug string) error {
			if slug == "old-page" {
				return nil
			}
			return page.ErrPageNotFound
		},
	}
	srv := pageRouter(repo, tokens)

	req := httptest.NewRequest(http.MethodDelete, "/api/pages/old-page", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, uuid.New()))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
