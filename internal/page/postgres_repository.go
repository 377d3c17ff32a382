package page

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// Create inserts a new page record. A duplicate slug maps to ErrSlugTaken.
func (r *PostgresRepository) Create(ctx context.Context, p *Page) error {
	query := `
		INSERT INTO pages (slug, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.Slug, p.Title, p.Content).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("inserting page: %w", err)
	}

	return nil
}

// GetBySlug retrieves a single page by slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	query := `
		SELECT id, slug, title, content, created_at, updated_at
		FROM pages
		WHERE slug = $1`

	var p Page
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("querying page: %w", err)
	}

	return &p, nil
}

// List retrieves all pages ordered by slug.
func (r *PostgresRepository) List(ctx context.Context) ([]Page, error) {
	query := `
		SELECT id, slug, title, content, created_at, updated_at
		FROM pages
		ORDER BY slug ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating page rows: %w", err)
	}

	if pages == nil {
		pages = []Page{}
	}

	return pages, nil
}

// Update applies non-nil fields to a page and returns the updated record.
func (r *PostgresRepository) Update(ctx context.Context, slug string, fields UpdateFields) (*Page, error) {
	query := `
		UPDATE pages
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    updated_at = NOW()
		WHERE slug = $1
		RETURNING id, slug, title, content, created_at, updated_at`

	var p Page
	err := r.pool.QueryRow(ctx, query, slug, fields.Title, fields.Content).Scan(
		&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("updating page: %w", err)
	}

	return &p, nil
}

// Delete removes a page record.
func (r *PostgresRepository) Delete(ctx context.Context, slug string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPageNotFound
	}

	return nil
}
