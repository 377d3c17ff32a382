package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mosaic14/mosaic/internal/api/middleware"
	"github.com/mosaic14/mosaic/internal/api/response"
	"github.com/mosaic14/mosaic/internal/api/validation"
	"github.com/mosaic14/mosaic/internal/conversation"
)

type createConversationRequest struct {
	Title string `json:"title"`
}

type updateConversationRequest struct {
	Title string `json:"title"`
}

type addMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type conversationPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type messagePayload struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type conversationResponse struct {
	Success      bool                `json:"success"`
	Conversation conversationPayload `json:"conversation"`
}

type conversationWithMessagesResponse struct {
	Success      bool                `json:"success"`
	Conversation conversationPayload `json:"conversation"`
	Messages     []messagePayload    `json:"messages"`
}

type conversationListResponse struct {
	Success       bool                  `json:"success"`
	Conversations []conversationPayload `json:"conversations"`
	Total         int                   `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

type messageResponse struct {
	Success bool           `json:"success"`
	Message messagePayload `json:"message"`
}

// ConversationHandler handles the /api/conversations endpoints.
type ConversationHandler struct {
	repo conversation.Repository
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(repo conversation.Repository) *ConversationHandler {
	return &ConversationHandler{repo: repo}
}

// Create handles POST /api/conversations.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreateConversationRequest(validation.CreateConversationRequest{
		Title: req.Title,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	c := &conversation.Conversation{
		UserID: identity.UserID,
		Title:  strings.TrimSpace(req.Title),
	}

	if err := h.repo.Create(r.Context(), c); err != nil {
		slog.Error("failed to create conversation", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	response.JSON(w, http.StatusCreated, conversationResponse{
		Success:      true,
		Conversation: toConversationPayload(c),
	})
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	filter := conversation.ListFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
	}

	result, err := h.repo.List(r.Context(), identity.UserID, filter)
	if err != nil {
		slog.Error("failed to list conversations", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	items := make([]conversationPayload, 0, len(result.Conversations))
	for i := range result.Conversations {
		items = append(items, toConversationPayload(&result.Conversations[i]))
	}

	response.JSON(w, http.StatusOK, conversationListResponse{
		Success:       true,
		Conversations: items,
		Total:         result.Total,
		Page:          result.Page,
		Limit:         result.Limit,
	})
}

// GetByID handles GET /api/conversations/{id}, returning the conversation
// together with its messages in insertion order.
func (h *ConversationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	c, err := h.repo.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			response.Err(w, http.StatusNotFound, "Conversation not found")
			return
		}
		slog.Error("failed to get conversation", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}

	messages, err := h.repo.ListMessages(r.Context(), c.ID)
	if err != nil {
		slog.Error("failed to list messages", "error", err, "conversationId", c.ID)
		response.Err(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}

	items := make([]messagePayload, 0, len(messages))
	for i := range messages {
		items = append(items, toMessagePayload(&messages[i]))
	}

	response.JSON(w, http.StatusOK, conversationWithMessagesResponse{
		Success:      true,
		Conversation: toConversationPayload(c),
		Messages:     items,
	})
}

// Update handles PATCH /api/conversations/{id}.
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreateConversationRequest(validation.CreateConversationRequest{
		Title: req.Title,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	title := strings.TrimSpace(req.Title)
	if err := h.repo.UpdateTitle(r.Context(), id, identity.UserID, title); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			response.Err(w, http.StatusNotFound, "Conversation not found")
			return
		}
		slog.Error("failed to update conversation", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to update conversation")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		slog.Error("failed to reload conversation", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to update conversation")
		return
	}

	response.JSON(w, http.StatusOK, conversationResponse{
		Success:      true,
		Conversation: toConversationPayload(c),
	})
}

// Delete handles DELETE /api/conversations/{id} (soft delete).
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.repo.SoftDelete(r.Context(), id, identity.UserID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			response.Err(w, http.StatusNotFound, "Conversation not found")
			return
		}
		slog.Error("failed to delete conversation", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	response.NoContent(w)
}

// AddMessage handles POST /api/conversations/{id}/messages.
func (h *ConversationHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateAddMessageRequest(validation.AddMessageRequest{
		Role:    req.Role,
		Content: req.Content,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	// Ownership check before the insert
	c, err := h.repo.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			response.Err(w, http.StatusNotFound, "Conversation not found")
			return
		}
		slog.Error("failed to get conversation", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to add message")
		return
	}

	m := &conversation.Message{
		ConversationID: c.ID,
		Role:           req.Role,
		Content:        req.Content,
	}

	if err := h.repo.AddMessage(r.Context(), m); err != nil {
		slog.Error("failed to add message", "error", err, "conversationId", c.ID)
		response.Err(w, http.StatusInternalServerError, "Failed to add message")
		return
	}

	response.JSON(w, http.StatusCreated, messageResponse{
		Success: true,
		Message: toMessagePayload(m),
	})
}

func toConversationPayload(c *conversation.Conversation) conversationPayload {
	return conversationPayload{
		ID:        c.ID.String(),
		Title:     c.Title,
		CreatedAt: c.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: c.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toMessagePayload(m *conversation.Message) messagePayload {
	return messagePayload{
		ID:        m.ID.String(),
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC().Format(timeFormat),
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
