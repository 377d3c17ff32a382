package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mosaic14/mosaic/internal/auth"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Username string
	Password string
}

// ValidateLoginRequest checks presence of the login fields. Credential
// format rules are deliberately not applied here so that login failures
// for malformed usernames look identical to any other bad credential.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// RegisterRequest mirrors the fields needed for registration validation.
type RegisterRequest struct {
	Username    string
	Password    string
	AnonymousID string
}

// ValidateRegisterRequest applies the username and password rule sets,
// collecting every violation.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	if req.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	} else {
		for _, msg := range auth.ValidateUsername(req.Username) {
			errs = append(errs, FieldError{Field: "username", Message: msg})
		}
	}

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else {
		for _, msg := range auth.ValidatePasswordStrength(req.Password) {
			errs = append(errs, FieldError{Field: "password", Message: msg})
		}
	}

	if req.AnonymousID != "" {
		if _, err := uuid.Parse(req.AnonymousID); err != nil {
			errs = append(errs, FieldError{Field: "anonymousId", Message: "anonymousId must be a valid UUID"})
		}
	}

	return errs
}

// ValidateRefreshRequest checks presence of the refresh token.
func ValidateRefreshRequest(refreshToken string) []FieldError {
	var errs []FieldError

	if refreshToken == "" {
		errs = append(errs, FieldError{Field: "refreshToken", Message: "refreshToken is required"})
	}

	return errs
}
