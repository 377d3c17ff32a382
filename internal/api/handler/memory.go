package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mosaic14/mosaic/internal/api/middleware"
	"github.com/mosaic14/mosaic/internal/api/response"
	"github.com/mosaic14/mosaic/internal/api/validation"
	"github.com/mosaic14/mosaic/internal/memory"
)

type createMemoryRequest struct {
	Content  string `json:"content"`
	Category string `json:"category"`
}

type memoryPayload struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
}

type memoryResponse struct {
	Success bool          `json:"success"`
	Memory  memoryPayload `json:"memory"`
}

type memoryListResponse struct {
	Success  bool            `json:"success"`
	Memories []memoryPayload `json:"memories"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// MemoryHandler handles the /api/memories endpoints. Routes are mounted
// under optional auth so guests can keep memories against their anonymous
// identity; a request without any identity is rejected here.
type MemoryHandler struct {
	store memory.Store
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(store memory.Store) *MemoryHandler {
	return &MemoryHandler{store: store}
}

// Create handles POST /api/memories.
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreateMemoryRequest(validation.CreateMemoryRequest{
		Content:  req.Content,
		Category: req.Category,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "general"
	}

	m := &memory.Memory{
		UserID:   identity.UserID,
		Content:  req.Content,
		Category: category,
	}

	if err := h.store.Create(r.Context(), m); err != nil {
		slog.Error("failed to create memory", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create memory")
		return
	}

	response.JSON(w, http.StatusCreated, memoryResponse{
		Success: true,
		Memory:  toMemoryPayload(m),
	})
}

// List handles GET /api/memories.
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter := memory.ListFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}

	result, err := h.store.List(r.Context(), identity.UserID, filter)
	if err != nil {
		slog.Error("failed to list memories", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to list memories")
		return
	}

	items := make([]memoryPayload, 0, len(result.Memories))
	for i := range result.Memories {
		items = append(items, toMemoryPayload(&result.Memories[i]))
	}

	response.JSON(w, http.StatusOK, memoryListResponse{
		Success:  true,
		Memories: items,
		Total:    result.Total,
		Page:     result.Page,
		Limit:    result.Limit,
	})
}

// Delete handles DELETE /api/memories/{id}.
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id, identity.UserID); err != nil {
		if errors.Is(err, memory.ErrMemoryNotFound) {
			response.Err(w, http.StatusNotFound, "Memory not found")
			return
		}
		slog.Error("failed to delete memory", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to delete memory")
		return
	}

	response.NoContent(w)
}

func toMemoryPayload(m *memory.Memory) memoryPayload {
	return memoryPayload{
		ID:        m.ID.String(),
		Content:   m.Content,
		Category:  m.Category,
		CreatedAt: m.CreatedAt.UTC().Format(timeFormat),
	}
}
