package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Conversation represents a row in the conversations table.
type Conversation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Message represents a row in the messages table.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Role           string
	Content        string
	CreatedAt      time.Time
}

// Message roles accepted on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidRole reports whether role is one of the accepted message roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant || role == RoleSystem
}

// ListFilter holds pagination for listing conversations.
type ListFilter struct {
	Page  int // default 1
	Limit int // default 20
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Conversations []Conversation
	Total         int
	Page          int
	Limit         int
}
