package validation

import (
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreatePageRequest mirrors the fields needed for create page validation.
type CreatePageRequest struct {
	Slug  string
	Title string
}

// ValidateCreatePageRequest validates the fields of a create page request.
func ValidateCreatePageRequest(req CreatePageRequest) []FieldError {
	var errs []FieldError

	if req.Slug == "" {
		errs = append(errs, FieldError{Field: "slug", Message: "slug is required"})
	} else if len(req.Slug) > 100 {
		errs = append(errs, FieldError{Field: "slug", Message: "slug must be at most 100 characters"})
	} else if !slugRegex.MatchString(req.Slug) {
		errs = append(errs, FieldError{Field: "slug", Message: "slug must be lowercase letters, digits and hyphens"})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > 255 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}

	return errs
}
