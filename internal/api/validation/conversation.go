package validation

import (
	"strings"

	"github.com/mosaic14/mosaic/internal/conversation"
)

// CreateConversationRequest mirrors the fields needed for create validation.
type CreateConversationRequest struct {
	Title string
}

// ValidateCreateConversationRequest validates the fields of a create
// conversation request.
func ValidateCreateConversationRequest(req CreateConversationRequest) []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > 255 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}

	return errs
}

// AddMessageRequest mirrors the fields needed for message validation.
type AddMessageRequest struct {
	Role    string
	Content string
}

// ValidateAddMessageRequest validates the fields of an add message request.
func ValidateAddMessageRequest(req AddMessageRequest) []FieldError {
	var errs []FieldError

	if req.Role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	} else if !conversation.ValidRole(req.Role) {
		errs = append(errs, FieldError{Field: "role", Message: "role must be \"user\", \"assistant\" or \"system\""})
	}

	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	}

	return errs
}
