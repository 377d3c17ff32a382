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
	"github.com/mosaic14/mosaic/internal/auth"
)

const timeFormat = "2006-01-02T15:04:05Z"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	AnonymousID string `json:"anonymousId"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userPayload struct {
	ID          string  `json:"id"`
	Username    *string `json:"username"`
	IsAnonymous bool    `json:"isAnonymous"`
	CreatedAt   string  `json:"createdAt"`
}

type sessionResponse struct {
	Success      bool        `json:"success"`
	User         userPayload `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type tokenResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type profileResponse struct {
	Success bool        `json:"success"`
	User    userPayload `json:"user"`
}

// AuthHandler handles the /api/auth endpoints.
type AuthHandler struct {
	service *auth.Service
	users   auth.UserRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service, users auth.UserRepository) *AuthHandler {
	return &AuthHandler{
		service: service,
		users:   users,
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	u, pair, err := h.service.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slog.Error("login failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "Login failed")
		return
	}

	response.JSON(w, http.StatusOK, sessionResponse{
		Success:      true,
		User:         toUserPayload(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Register handles POST /api/auth/register. When anonymousId is supplied the
// existing anonymous user is upgraded instead of creating a new record.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateRegisterRequest(validation.RegisterRequest{
		Username:    req.Username,
		Password:    req.Password,
		AnonymousID: req.AnonymousID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	var anonymousID *string
	if req.AnonymousID != "" {
		anonymousID = &req.AnonymousID
	}

	u, pair, err := h.service.Register(r.Context(), req.Username, req.Password, anonymousID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			response.Err(w, http.StatusConflict, "Username already taken")
		case errors.Is(err, auth.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, "Anonymous user not found")
		default:
			slog.Error("registration failed", "error", err)
			response.Err(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	response.JSON(w, http.StatusCreated, sessionResponse{
		Success:      true,
		User:         toUserPayload(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Anonymous handles POST /api/auth/anonymous: creates a guest user whose id
// is the opaque identifier supplied on later requests.
func (h *AuthHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.CreateAnonymous(r.Context())
	if err != nil {
		slog.Error("failed to create anonymous user", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create anonymous user")
		return
	}

	response.JSON(w, http.StatusCreated, profileResponse{
		Success: true,
		User:    toUserPayload(u),
	})
}

// Refresh handles POST /api/auth/refresh. The presented refresh token is
// consumed and an entirely new pair is issued.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateRefreshRequest(req.RefreshToken)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Input validation failed", fieldErrors)
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			response.Err(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		slog.Error("token refresh failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	response.JSON(w, http.StatusOK, tokenResponse{
		Success:      true,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Me handles GET /api/auth/me. Guests resolve via the anonymous identifier,
// so a usable profile comes back without credentials. A resolvable identity
// whose record is gone is a 404, not a 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusNotFound, "User not found")
		return
	}

	u, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("failed to get user", "error", err, "id", identity.UserID)
		response.Err(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	response.JSON(w, http.StatusOK, profileResponse{
		Success: true,
		User:    toUserPayload(u),
	})
}

func toUserPayload(u *auth.User) userPayload {
	return userPayload{
		ID:          u.ID.String(),
		Username:    u.Username,
		IsAnonymous: u.IsAnonymous,
		CreatedAt:   u.CreatedAt.UTC().Format(timeFormat),
	}
}
