package page

import (
	"time"

	"github.com/google/uuid"
)

// Page represents a row in the pages table. Pages are slug-addressed static
// content for the dashboard.
type Page struct {
	ID        uuid.UUID
	Slug      string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateFields holds user-updatable fields on a page record.
// Nil fields are not updated.
type UpdateFields struct {
	Title   *string
	Content *string
}
