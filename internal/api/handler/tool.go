package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mosaic14/mosaic/internal/api/response"
	"github.com/mosaic14/mosaic/internal/tools"
)

type toolListResponse struct {
	Success bool               `json:"success"`
	Tools   []tools.Definition `json:"tools"`
}

type toolResponse struct {
	Success bool             `json:"success"`
	Tool    tools.Definition `json:"tool"`
}

// ToolHandler handles the GET /api/tools endpoint, exposing the static
// function registry.
type ToolHandler struct {
	registry *tools.Registry
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(registry *tools.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// List handles GET /api/tools.
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, toolListResponse{
		Success: true,
		Tools:   h.registry.List(),
	})
}

// GetByName handles GET /api/tools/{name}.
func (h *ToolHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	def, ok := h.registry.Get(chi.URLParam(r, "name"))
	if !ok {
		response.Err(w, http.StatusNotFound, "Tool not found")
		return
	}

	response.JSON(w, http.StatusOK, toolResponse{
		Success: true,
		Tool:    def,
	})
}
