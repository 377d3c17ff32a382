package validation

import "strings"

// CreateFileRequest mirrors the fields needed for file metadata validation.
type CreateFileRequest struct {
	Key  string
	Name string
	Size int64
}

// ValidateCreateFileRequest validates the fields of a create file request.
func ValidateCreateFileRequest(req CreateFileRequest) []FieldError {
	var errs []FieldError

	if req.Key == "" {
		errs = append(errs, FieldError{Field: "key", Message: "key is required"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if req.Size < 0 {
		errs = append(errs, FieldError{Field: "size", Message: "size must not be negative"})
	}

	return errs
}
