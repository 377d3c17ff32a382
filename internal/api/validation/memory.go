package validation

import "strings"

// CreateMemoryRequest mirrors the fields needed for create memory validation.
type CreateMemoryRequest struct {
	Content  string
	Category string
}

// ValidateCreateMemoryRequest validates the fields of a create memory request.
func ValidateCreateMemoryRequest(req CreateMemoryRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	}

	if len(req.Category) > 100 {
		errs = append(errs, FieldError{Field: "category", Message: "category must be at most 100 characters"})
	}

	return errs
}
