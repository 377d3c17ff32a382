package memory

import (
	"time"

	"github.com/google/uuid"
)

// Memory represents one long-term memory entry for a user.
type Memory struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Content   string
	Category  string
	CreatedAt time.Time
}

// ListFilter holds optional filters and pagination for listing memories.
type ListFilter struct {
	Category *string
	Page     int // default 1
	Limit    int // default 20
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Memories []Memory
	Total    int
	Page     int
	Limit    int
}
