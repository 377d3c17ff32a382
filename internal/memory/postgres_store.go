package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &PostgresStore{pool: pool}
}

// Create inserts a new memory entry.
func (s *PostgresStore) Create(ctx context.Context, m *Memory) error {
	query := `
		INSERT INTO memories (user_id, content, category)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query, m.UserID, m.Content, m.Category).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting memory: %w", err)
	}

	return nil
}

// List retrieves the user's memories, newest first, optionally filtered
// by category.
func (s *PostgresStore) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	countQuery := `SELECT COUNT(*) FROM memories WHERE user_id = $1 AND ($2::TEXT IS NULL OR category = $2)`

	var total int
	if err := s.pool.QueryRow(ctx, countQuery, userID, filter.Category).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting memories: %w", err)
	}

	query := `
		SELECT id, user_id, content, category, created_at
		FROM memories
		WHERE user_id = $1 AND ($2::TEXT IS NULL OR category = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	offset := (filter.Page - 1) * filter.Limit
	rows, err := s.pool.Query(ctx, query, userID, filter.Category, filter.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing memories: %w", err)
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		var m Memory
		err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.Category, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning memory row: %w", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memory rows: %w", err)
	}

	if memories == nil {
		memories = []Memory{}
	}

	return &ListResult{
		Memories: memories,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

// Delete removes a memory entry owned by the given user.
func (s *PostgresStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := s.pool.Exec(ctx,
		`DELETE FROM memories WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting memory: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemoryNotFound
	}

	return nil
}
