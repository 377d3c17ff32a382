package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new conversation record.
func (r *PostgresRepository) Create(ctx context.Context, c *Conversation) error {
	query := `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.UserID, c.Title).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}

	return nil
}

// GetByID retrieves a conversation owned by the given user.
func (r *PostgresRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at, deleted_at
		FROM conversations
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	var c Conversation
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("querying conversation: %w", err)
	}

	return &c, nil
}

// List retrieves the user's conversations, newest first, excluding
// soft-deleted rows.
func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM conversations WHERE user_id = $1 AND deleted_at IS NULL`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting conversations: %w", err)
	}

	query := `
		SELECT id, user_id, title, created_at, updated_at, deleted_at
		FROM conversations
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.pool.Query(ctx, query, userID, filter.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversation rows: %w", err)
	}

	if conversations == nil {
		conversations = []Conversation{}
	}

	return &ListResult{
		Conversations: conversations,
		Total:         total,
		Page:          filter.Page,
		Limit:         filter.Limit,
	}, nil
}

// UpdateTitle renames a conversation owned by the given user.
func (r *PostgresRepository) UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) error {
	query := `
		UPDATE conversations
		SET title = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id, userID, title)
	if err != nil {
		return fmt.Errorf("updating conversation title: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// SoftDelete sets deleted_at on a conversation owned by the given user.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE conversations
		SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// AddMessage appends a message to a conversation and bumps its updated_at.
func (r *PostgresRepository) AddMessage(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, m.ConversationID, m.Role, m.Content).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`,
		m.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}

	return nil
}

// ListMessages retrieves a conversation's messages in insertion order.
func (r *PostgresRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	if messages == nil {
		messages = []Message{}
	}

	return messages, nil
}
