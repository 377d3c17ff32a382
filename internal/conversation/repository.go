package conversation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrConversationNotFound is returned when a conversation does not exist,
// is soft-deleted, or belongs to a different user.
var ErrConversationNotFound = errors.New("conversation not found")

// Repository provides operations on the conversations and messages tables.
// All reads and writes are scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, c *Conversation) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Conversation, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error)
	UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) error
	SoftDelete(ctx context.Context, id, userID uuid.UUID) error
	AddMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
}
