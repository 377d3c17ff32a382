package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mosaic14/mosaic/internal/api/middleware"
	"github.com/mosaic14/mosaic/internal/api/response"
	"github.com/mosaic14/mosaic/internal/api/validation"
	"github.com/mosaic14/mosaic/internal/file"
	"github.com/mosaic14/mosaic/internal/storage"
)

// ObjectStore is the subset of the storage client the file handler needs.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type createFileRequest struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

type filePayload struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	CreatedAt   string `json:"createdAt"`
}

type uploadResponse struct {
	Success   bool   `json:"success"`
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}

type fileResponse struct {
	Success bool        `json:"success"`
	File    filePayload `json:"file"`
}

type fileListResponse struct {
	Success bool          `json:"success"`
	Files   []filePayload `json:"files"`
}

type downloadResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl"`
}

// FileHandler handles the /api/files endpoints. Uploads are two-step: the
// client requests a presigned PUT URL, uploads directly to object storage,
// then records the metadata.
type FileHandler struct {
	repo    file.Repository
	objects ObjectStore
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(repo file.Repository, objects ObjectStore) *FileHandler {
	return &FileHandler{
		repo:    repo,
		objects: objects,
	}
}

// CreateUpload handles POST /api/files/uploads.
func (h *FileHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	key := storage.NewStorageKey(identity.UserID)
	url, err := h.objects.PresignPut(r.Context(), key)
	if err != nil {
		slog.Error("failed to presign upload", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create upload")
		return
	}

	response.JSON(w, http.StatusCreated, uploadResponse{
		Success:   true,
		Key:       key,
		UploadURL: url,
	})
}

// Create handles POST /api/files, recording metadata after the client has
// uploaded the object.
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreateFileRequest(validation.CreateFileRequest{
		Key:  req.Key,
		Name: req.Name,
		Size: req.Size,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	f := &file.File{
		UserID:      identity.UserID,
		Key:         req.Key,
		Name:        strings.TrimSpace(req.Name),
		Size:        req.Size,
		ContentType: contentType,
	}

	if err := h.repo.Create(r.Context(), f); err != nil {
		slog.Error("failed to create file record", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create file")
		return
	}

	response.JSON(w, http.StatusCreated, fileResponse{
		Success: true,
		File:    toFilePayload(f),
	})
}

// List handles GET /api/files.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	files, err := h.repo.List(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("failed to list files", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	items := make([]filePayload, 0, len(files))
	for i := range files {
		items = append(items, toFilePayload(&files[i]))
	}

	response.JSON(w, http.StatusOK, fileListResponse{
		Success: true,
		Files:   items,
	})
}

// Download handles GET /api/files/{id}/download, returning a presigned GET URL.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	f, err := h.repo.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			response.Err(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("failed to get file", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to load file")
		return
	}

	url, err := h.objects.PresignGet(r.Context(), f.Key)
	if err != nil {
		slog.Error("failed to presign download", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to create download")
		return
	}

	response.JSON(w, http.StatusOK, downloadResponse{
		Success:     true,
		DownloadURL: url,
	})
}

// Delete handles DELETE /api/files/{id}, removing both the metadata record
// and the stored object.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	f, err := h.repo.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			response.Err(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("failed to get file", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	if err := h.repo.Delete(r.Context(), id, identity.UserID); err != nil {
		slog.Error("failed to delete file record", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	// Metadata is the source of truth; a failed object delete is logged and
	// left to storage lifecycle rules.
	if err := h.objects.Delete(r.Context(), f.Key); err != nil {
		slog.Error("failed to delete object", "error", err, "key", f.Key)
	}

	response.NoContent(w)
}

func toFilePayload(f *file.File) filePayload {
	return filePayload{
		ID:          f.ID.String(),
		Key:         f.Key,
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
		CreatedAt:   f.CreatedAt.UTC().Format(timeFormat),
	}
}
