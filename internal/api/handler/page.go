package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mosaic14/mosaic/internal/api/response"
	"github.com/mosaic14/mosaic/internal/api/validation"
	"github.com/mosaic14/mosaic/internal/page"
)

type createPageRequest struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updatePageRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type pagePayload struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type pageResponse struct {
	Success bool        `json:"success"`
	Page    pagePayload `json:"page"`
}

type pageListResponse struct {
	Success bool          `json:"success"`
	Pages   []pagePayload `json:"pages"`
}

// PageHandler handles the /api/pages endpoints. Reads are public; mutations
// are mounted behind required auth.
type PageHandler struct {
	repo page.Repository
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(repo page.Repository) *PageHandler {
	return &PageHandler{repo: repo}
}

// Create handles POST /api/pages.
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreatePageRequest(validation.CreatePageRequest{
		Slug:  req.Slug,
		Title: req.Title,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	p := &page.Page{
		Slug:    req.Slug,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		if errors.Is(err, page.ErrSlugTaken) {
			response.Err(w, http.StatusConflict, "Page slug already taken")
			return
		}
		slog.Error("failed to create page", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create page")
		return
	}

	response.JSON(w, http.StatusCreated, pageResponse{
		Success: true,
		Page:    toPagePayload(p),
	})
}

// List handles GET /api/pages.
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list pages", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to list pages")
		return
	}

	items := make([]pagePayload, 0, len(pages))
	for i := range pages {
		items = append(items, toPagePayload(&pages[i]))
	}

	response.JSON(w, http.StatusOK, pageListResponse{
		Success: true,
		Pages:   items,
	})
}

// GetBySlug handles GET /api/pages/{slug}.
func (h *PageHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, page.ErrPageNotFound) {
			response.Err(w, http.StatusNotFound, "Page not found")
			return
		}
		slog.Error("failed to get page", "error", err, "slug", slug)
		response.Err(w, http.StatusInternalServerError, "Failed to load page")
		return
	}

	response.JSON(w, http.StatusOK, pageResponse{
		Success: true,
		Page:    toPagePayload(p),
	})
}

// Update handles PATCH /api/pages/{slug}. Nil fields are left unchanged.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	if req.Title == nil && req.Content == nil {
		response.Err(w, http.StatusBadRequest, "At least one of title or content is required")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 255 {
			response.Err(w, http.StatusBadRequest, "title must be between 1 and 255 characters")
			return
		}
		req.Title = &title
	}

	p, err := h.repo.Update(r.Context(), slug, page.UpdateFields{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, page.ErrPageNotFound) {
			response.Err(w, http.StatusNotFound, "Page not found")
			return
		}
		slog.Error("failed to update page", "error", err, "slug", slug)
		response.Err(w, http.StatusInternalServerError, "Failed to update page")
		return
	}

	response.JSON(w, http.StatusOK, pageResponse{
		Success: true,
		Page:    toPagePayload(p),
	})
}

// Delete handles DELETE /api/pages/{slug}.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.repo.Delete(r.Context(), slug); err != nil {
		if errors.Is(err, page.ErrPageNotFound) {
			response.Err(w, http.StatusNotFound, "Page not found")
			return
		}
		slog.Error("failed to delete page", "error", err, "slug", slug)
		response.Err(w, http.StatusInternalServerError, "Failed to delete page")
		return
	}

	response.NoContent(w)
}

func toPagePayload(p *page.Page) pagePayload {
	return pagePayload{
		ID:        p.ID.String(),
		Slug:      p.Slug,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: p.UpdatedAt.UTC().Format(timeFormat),
	}
}
