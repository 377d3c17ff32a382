package page

import (
	"context"
	"errors"
)

// ErrPageNotFound is returned when a page record is not found.
var ErrPageNotFound = errors.New("page not found")

// ErrSlugTaken is returned when a page slug is already in use.
var ErrSlugTaken = errors.New("page slug already taken")

// Repository provides operations on the pages table.
type Repository interface {
	Create(ctx context.Context, p *Page) error
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context) ([]Page, error)
	Update(ctx context.Context, slug string, fields UpdateFields) (*Page, error)
	Delete(ctx context.Context, slug string) error
}
