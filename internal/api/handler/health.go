package handler

import (
	"context"
	"net/http"

	"github.com/mosaic14/mosaic/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type healthResponse struct {
	Success  bool           `json:"success"`
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	connected := true

	if err := h.db.Ping(r.Context()); err != nil {
		status = "degraded"
		connected = false
	}

	response.JSON(w, http.StatusOK, healthResponse{
		Success:  true,
		Status:   status,
		Version:  h.version,
		Database: databaseStatus{Connected: connected},
	})
}
