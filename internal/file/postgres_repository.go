package file

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

// Create inserts a new file metadata record.
func (r *PostgresRepository) Create(ctx context.Context, f *File) error {
	query := `
		INSERT INTO files (user_id, key, name, size, content_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		f.UserID, f.Key, f.Name, f.Size, f.ContentType,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}

	return nil
}

// GetByID retrieves a file record owned by the given user.
func (r *PostgresRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*File, error) {
	query := `
		SELECT id, user_id, key, name, size, content_type, created_at
		FROM files
		WHERE id = $1 AND user_id = $2`

	var f File
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&f.ID, &f.UserID, &f.Key, &f.Name, &f.Size, &f.ContentType, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("querying file: %w", err)
	}

	return &f, nil
}

// List retrieves the user's file records, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID) ([]File, error) {
	query := `
		SELECT id, user_id, key, name, size, content_type, created_at
		FROM files
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		err := rows.Scan(&f.ID, &f.UserID, &f.Key, &f.Name, &f.Size, &f.ContentType, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating file rows: %w", err)
	}

	if files == nil {
		files = []File{}
	}

	return files, nil
}

// Delete removes a file record owned by the given user.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM files WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrFileNotFound
	}

	return nil
}
